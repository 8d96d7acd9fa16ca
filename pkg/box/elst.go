package box

import "fmt"

// aligned(8) class EditListBox extends FullBox('elst', version, 0) {
//		unsigned int(32) entry_count;
//		for (i=1; i <= entry_count; i++) {
//			if (version==1) {
//				unsigned int(64) segment_duration;
//				int(64) media_time;
//			} else {
//				unsigned int(32) segment_duration;
//				int(32) media_time;
//			}
//			int(16) media_rate_integer;
//			int(16) media_rate_fraction;
//		}
// }
type EditListBox struct {
	Version uint8
	Flags   uint32
	Entries []EditListEntry
}

type EditListEntry struct {
	Segment_duration    uint64
	Media_time          int64
	Media_rate          uint16
	Media_rate_fraction uint16
}

const elstBoxMinLen = FullBoxLen + 4

func (b *EditListBox) entryLen() int {
	if b.Version == 1 {
		return 20
	}
	return 12
}

func (b *EditListBox) BoxType() [4]byte { return TypeELST }

func (b *EditListBox) BoxSize() uint32 {
	return uint32(elstBoxMinLen + b.entryLen()*len(b.Entries))
}

func (b *EditListBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeELST, b.Version, b.Flags)
	buf = appendUint32(buf, uint32(len(b.Entries)))
	for _, e := range b.Entries {
		if b.Version == 1 {
			buf = appendUint64(buf, e.Segment_duration)
			buf = appendBE(buf, e.Media_time, 8)
		} else {
			buf = appendUint32(buf, uint32(e.Segment_duration))
			buf = appendBE(buf, int32(e.Media_time), 4)
		}
		buf = appendUint16(buf, e.Media_rate)
		buf = appendUint16(buf, e.Media_rate_fraction)
	}
	return buf
}

func decodeElst(data []byte) (*EditListBox, int, error) {
	size, err := checkHeader(data, TypeELST, elstBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &EditListBox{}
	b.Version, b.Flags = readFullPrefix(data)
	if b.Version > 1 {
		return nil, 0, fmt.Errorf("elst: version %d: %w", b.Version, ErrUnsupportedVersion)
	}
	count := int(readU32(data, 12))
	w := b.entryLen()
	if size < elstBoxMinLen+w*count {
		return nil, 0, fmt.Errorf("elst: %d entries in %d bytes: %w", count, size, ErrSizeMismatch)
	}
	b.Entries = make([]EditListEntry, count)
	for i := range b.Entries {
		offset := elstBoxMinLen + w*i
		var e EditListEntry
		if b.Version == 1 {
			e.Segment_duration = readU64(data, offset)
			e.Media_time = int64(readU64(data, offset+8))
			offset += 16
		} else {
			e.Segment_duration = uint64(readU32(data, offset))
			e.Media_time = int64(int32(readU32(data, offset+4)))
			offset += 8
		}
		e.Media_rate = readU16(data, offset)
		e.Media_rate_fraction = readU16(data, offset+2)
		b.Entries[i] = e
	}
	return b, size, nil
}

package box

import "fmt"

// aligned(8) class TimeToSampleBox extends FullBox('stts', version = 0, 0) {
//		unsigned int(32) entry_count;
//		int i;
//		for (i=0; i < entry_count; i++) {
//			unsigned int(32) sample_count;
//			unsigned int(32) sample_delta;
//		}
// }
type TimeToSampleBox struct {
	Version uint8
	Flags   uint32
	Entries []TimeToSampleEntry
}

type TimeToSampleEntry struct {
	SampleCount uint32
	SampleDelta uint32
}

const sttsBoxMinLen = FullBoxLen + 4

// NewTimeToSampleBox returns the empty-but-valid table an init segment
// carries; all timing lives in the movie fragments.
func NewTimeToSampleBox() *TimeToSampleBox {
	return &TimeToSampleBox{Entries: []TimeToSampleEntry{{}}}
}

func (b *TimeToSampleBox) BoxType() [4]byte { return TypeSTTS }

func (b *TimeToSampleBox) BoxSize() uint32 {
	return uint32(sttsBoxMinLen + 8*len(b.Entries))
}

func (b *TimeToSampleBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeSTTS, b.Version, b.Flags)
	buf = appendUint32(buf, uint32(len(b.Entries)))
	for _, e := range b.Entries {
		buf = appendUint32(buf, e.SampleCount)
		buf = appendUint32(buf, e.SampleDelta)
	}
	return buf
}

func decodeStts(data []byte) (*TimeToSampleBox, int, error) {
	size, err := checkHeader(data, TypeSTTS, sttsBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &TimeToSampleBox{}
	b.Version, b.Flags = readFullPrefix(data)
	count := int(readU32(data, 12))
	if size < sttsBoxMinLen+8*count {
		return nil, 0, fmt.Errorf("stts: %d entries in %d bytes: %w", count, size, ErrSizeMismatch)
	}
	b.Entries = make([]TimeToSampleEntry, count)
	for i := range b.Entries {
		offset := sttsBoxMinLen + 8*i
		b.Entries[i] = TimeToSampleEntry{
			SampleCount: readU32(data, offset),
			SampleDelta: readU32(data, offset+4),
		}
	}
	return b, size, nil
}

package box

import "fmt"

// aligned(8) class CompositionOffsetBox extends FullBox('ctts', version, 0) {
//		unsigned int(32) entry_count;
//		for (i=0; i < entry_count; i++) {
//			unsigned int(32) sample_count;
//			if (version==0) { unsigned int(32) sample_offset; }
//			else { signed int(32) sample_offset; }
//		}
// }
type CompositionOffsetBox struct {
	Version uint8
	Flags   uint32
	Entries []CompositionOffsetEntry
}

// SampleOffset holds both the unsigned version-0 and signed version-1
// encodings without loss.
type CompositionOffsetEntry struct {
	SampleCount  uint32
	SampleOffset int64
}

const cttsBoxMinLen = FullBoxLen + 4

func (b *CompositionOffsetBox) BoxType() [4]byte { return TypeCTTS }

func (b *CompositionOffsetBox) BoxSize() uint32 {
	return uint32(cttsBoxMinLen + 8*len(b.Entries))
}

func (b *CompositionOffsetBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeCTTS, b.Version, b.Flags)
	buf = appendUint32(buf, uint32(len(b.Entries)))
	for _, e := range b.Entries {
		buf = appendUint32(buf, e.SampleCount)
		if b.Version == 1 {
			buf = appendBE(buf, int32(e.SampleOffset), 4)
		} else {
			buf = appendUint32(buf, uint32(e.SampleOffset))
		}
	}
	return buf
}

func decodeCtts(data []byte) (*CompositionOffsetBox, int, error) {
	size, err := checkHeader(data, TypeCTTS, cttsBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &CompositionOffsetBox{}
	b.Version, b.Flags = readFullPrefix(data)
	if b.Version > 1 {
		return nil, 0, fmt.Errorf("ctts: version %d: %w", b.Version, ErrUnsupportedVersion)
	}
	count := int(readU32(data, 12))
	if size < cttsBoxMinLen+8*count {
		return nil, 0, fmt.Errorf("ctts: %d entries in %d bytes: %w", count, size, ErrSizeMismatch)
	}
	b.Entries = make([]CompositionOffsetEntry, count)
	for i := range b.Entries {
		offset := cttsBoxMinLen + 8*i
		e := CompositionOffsetEntry{SampleCount: readU32(data, offset)}
		if b.Version == 1 {
			e.SampleOffset = int64(int32(readU32(data, offset+4)))
		} else {
			e.SampleOffset = int64(readU32(data, offset+4))
		}
		b.Entries[i] = e
	}
	return b, size, nil
}

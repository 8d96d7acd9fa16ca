package box

import "fmt"

// aligned(8) class SampleToChunkBox extends FullBox('stsc', version = 0, 0) {
//		unsigned int(32) entry_count;
//		for (i=1; i <= entry_count; i++) {
//			unsigned int(32) first_chunk;
//			unsigned int(32) samples_per_chunk;
//			unsigned int(32) sample_description_index;
//		}
// }
type SampleToChunkBox struct {
	Version uint8
	Flags   uint32
	Entries []SampleToChunkEntry
}

type SampleToChunkEntry struct {
	FirstChunk             uint32
	SamplesPerChunk        uint32
	SampleDescriptionIndex uint32
}

const stscBoxMinLen = FullBoxLen + 4

// NewSampleToChunkBox returns the single-entry identity mapping used by
// init segments.
func NewSampleToChunkBox() *SampleToChunkBox {
	return &SampleToChunkBox{Entries: []SampleToChunkEntry{{1, 1, 1}}}
}

func (b *SampleToChunkBox) BoxType() [4]byte { return TypeSTSC }

func (b *SampleToChunkBox) BoxSize() uint32 {
	return uint32(stscBoxMinLen + 12*len(b.Entries))
}

func (b *SampleToChunkBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeSTSC, b.Version, b.Flags)
	buf = appendUint32(buf, uint32(len(b.Entries)))
	for _, e := range b.Entries {
		buf = appendUint32(buf, e.FirstChunk)
		buf = appendUint32(buf, e.SamplesPerChunk)
		buf = appendUint32(buf, e.SampleDescriptionIndex)
	}
	return buf
}

func decodeStsc(data []byte) (*SampleToChunkBox, int, error) {
	size, err := checkHeader(data, TypeSTSC, stscBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &SampleToChunkBox{}
	b.Version, b.Flags = readFullPrefix(data)
	count := int(readU32(data, 12))
	if size < stscBoxMinLen+12*count {
		return nil, 0, fmt.Errorf("stsc: %d entries in %d bytes: %w", count, size, ErrSizeMismatch)
	}
	b.Entries = make([]SampleToChunkEntry, count)
	for i := range b.Entries {
		offset := stscBoxMinLen + 12*i
		b.Entries[i] = SampleToChunkEntry{
			FirstChunk:             readU32(data, offset),
			SamplesPerChunk:        readU32(data, offset+4),
			SampleDescriptionIndex: readU32(data, offset+8),
		}
	}
	return b, size, nil
}

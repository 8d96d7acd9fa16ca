package box

import "fmt"

// TrunFlagDataOffsetSampleSize is the only tr_flags value the stream
// format uses. One sample per fragment, then a signed data offset and
// that sample's byte size.
const TrunFlagDataOffsetSampleSize uint32 = 0x000005

// aligned(8) class TrackRunBox extends FullBox('trun', version, tr_flags) {
//		unsigned int(32) sample_count;
//		signed int(32) data_offset;
//		unsigned int(32) sample_size;
// }
type TrackRunBox struct {
	Version     uint8
	Flags       uint32
	SampleCount uint32
	DataOffset  int32
	SampleSize  uint32
}

const trunBoxLen = FullBoxLen + 12

func NewTrackRunBox(dataOffset int32, sampleSize uint32) *TrackRunBox {
	return &TrackRunBox{
		Flags:       TrunFlagDataOffsetSampleSize,
		SampleCount: 1,
		DataOffset:  dataOffset,
		SampleSize:  sampleSize,
	}
}

func (b *TrackRunBox) BoxType() [4]byte { return TypeTRUN }

func (b *TrackRunBox) BoxSize() uint32 { return trunBoxLen }

func (b *TrackRunBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, trunBoxLen, TypeTRUN, b.Version, b.Flags)
	buf = appendUint32(buf, b.SampleCount)
	buf = appendBE(buf, b.DataOffset, 4)
	buf = appendUint32(buf, b.SampleSize)
	return buf
}

func decodeTrun(data []byte) (*TrackRunBox, int, error) {
	size, err := checkHeader(data, TypeTRUN, trunBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &TrackRunBox{}
	b.Version, b.Flags = readFullPrefix(data)
	if b.Flags != TrunFlagDataOffsetSampleSize {
		return nil, 0, fmt.Errorf("trun: tr_flags %#06x: %w", b.Flags, ErrUnsupportedFlags)
	}
	b.SampleCount = readU32(data, 12)
	if b.SampleCount != 1 {
		return nil, 0, fmt.Errorf("trun: %d samples in fixed run: %w", b.SampleCount, ErrSizeMismatch)
	}
	b.DataOffset = int32(readU32(data, 16))
	b.SampleSize = readU32(data, 20)
	return b, size, nil
}

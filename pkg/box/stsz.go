package box

import "fmt"

// aligned(8) class SampleSizeBox extends FullBox('stsz', version = 0, 0) {
//		unsigned int(32) sample_size;
//		unsigned int(32) sample_count;
//		if (sample_size==0) {
//			for (i=1; i <= sample_count; i++) {
//				unsigned int(32) entry_size;
//			}
//		}
// }
//
// When SampleSize is zero the per-sample table in EntrySizes is encoded
// and SampleCount mirrors its length; otherwise SampleCount stands alone.
type SampleSizeBox struct {
	Version     uint8
	Flags       uint32
	SampleSize  uint32
	SampleCount uint32
	EntrySizes  []uint32
}

const stszBoxMinLen = FullBoxLen + 8

func NewSampleSizeBox() *SampleSizeBox {
	return &SampleSizeBox{SampleCount: 1, EntrySizes: []uint32{0}}
}

func (b *SampleSizeBox) BoxType() [4]byte { return TypeSTSZ }

func (b *SampleSizeBox) BoxSize() uint32 {
	if b.SampleSize == 0 {
		return uint32(stszBoxMinLen + 4*len(b.EntrySizes))
	}
	return stszBoxMinLen
}

func (b *SampleSizeBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeSTSZ, b.Version, b.Flags)
	buf = appendUint32(buf, b.SampleSize)
	if b.SampleSize == 0 {
		buf = appendUint32(buf, uint32(len(b.EntrySizes)))
		for _, s := range b.EntrySizes {
			buf = appendUint32(buf, s)
		}
	} else {
		buf = appendUint32(buf, b.SampleCount)
	}
	return buf
}

func decodeStsz(data []byte) (*SampleSizeBox, int, error) {
	size, err := checkHeader(data, TypeSTSZ, stszBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &SampleSizeBox{}
	b.Version, b.Flags = readFullPrefix(data)
	b.SampleSize = readU32(data, 12)
	count := int(readU32(data, 16))
	b.SampleCount = uint32(count)
	if b.SampleSize == 0 {
		if size < stszBoxMinLen+4*count {
			return nil, 0, fmt.Errorf("stsz: %d entries in %d bytes: %w", count, size, ErrSizeMismatch)
		}
		b.EntrySizes = make([]uint32, count)
		for i := range b.EntrySizes {
			b.EntrySizes[i] = readU32(data, stszBoxMinLen+4*i)
		}
	}
	return b, size, nil
}

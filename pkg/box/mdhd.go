package box

import "fmt"

// aligned(8) class MediaHeaderBox extends FullBox('mdhd', version, 0) {
//		if (version==1) {
//			unsigned int(64) creation_time;
//			unsigned int(64) modification_time;
//			unsigned int(32) timescale;
//			unsigned int(64) duration;
//		} else {
//			unsigned int(32) creation_time;
//			unsigned int(32) modification_time;
//			unsigned int(32) timescale;
//			unsigned int(32) duration;
//		}
//		bit(1) pad = 0;
//		unsigned int(5)[3] language;
//		unsigned int(16) pre_defined = 0;
// }
type MediaHeaderBox struct {
	Version           uint8
	Creation_time     uint64
	Modification_time uint64
	Timescale         uint32
	Duration          uint64
	Language          string
	Pre_defined       uint16
}

const (
	mdhdBoxLenV0 = 32
	mdhdBoxLenV1 = 44
)

func NewMediaHeaderBox(timescale uint32) *MediaHeaderBox {
	return &MediaHeaderBox{
		Timescale: timescale,
		Language:  "und",
	}
}

// packLanguage encodes a three-letter ISO-639-2 code into the 15-bit
// packed form (each letter biased by 0x60).
func packLanguage(s string) (v uint16) {
	if len(s) != 3 {
		s = "und"
	}
	for i := 0; i < 3; i++ {
		v = v<<5 | uint16(s[i]-0x60)&0x1f
	}
	return
}

func unpackLanguage(v uint16) string {
	return string([]byte{
		byte(v>>10&0x1f) + 0x60,
		byte(v>>5&0x1f) + 0x60,
		byte(v&0x1f) + 0x60,
	})
}

func (b *MediaHeaderBox) BoxType() [4]byte { return TypeMDHD }

func (b *MediaHeaderBox) BoxSize() uint32 {
	if b.Version == 1 {
		return mdhdBoxLenV1
	}
	return mdhdBoxLenV0
}

func (b *MediaHeaderBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeMDHD, b.Version, 0)
	if b.Version == 1 {
		buf = appendUint64(buf, b.Creation_time)
		buf = appendUint64(buf, b.Modification_time)
		buf = appendUint32(buf, b.Timescale)
		buf = appendUint64(buf, b.Duration)
	} else {
		buf = appendUint32(buf, uint32(b.Creation_time))
		buf = appendUint32(buf, uint32(b.Modification_time))
		buf = appendUint32(buf, b.Timescale)
		buf = appendUint32(buf, uint32(b.Duration))
	}
	buf = appendUint16(buf, packLanguage(b.Language))
	return appendUint16(buf, b.Pre_defined)
}

func decodeMdhd(data []byte) (*MediaHeaderBox, int, error) {
	size, err := checkHeader(data, TypeMDHD, mdhdBoxLenV0)
	if err != nil {
		return nil, 0, err
	}
	b := &MediaHeaderBox{Version: data[8]}
	offset := FullBoxLen
	switch b.Version {
	case 0:
		b.Creation_time = uint64(readU32(data, offset))
		b.Modification_time = uint64(readU32(data, offset+4))
		b.Timescale = readU32(data, offset+8)
		b.Duration = uint64(readU32(data, offset+12))
		offset += 16
	case 1:
		if size < mdhdBoxLenV1 {
			return nil, 0, fmt.Errorf("mdhd: declared %d for version 1: %w", size, ErrSizeMismatch)
		}
		b.Creation_time = readU64(data, offset)
		b.Modification_time = readU64(data, offset+8)
		b.Timescale = readU32(data, offset+16)
		b.Duration = readU64(data, offset+20)
		offset += 28
	default:
		return nil, 0, fmt.Errorf("mdhd: version %d: %w", b.Version, ErrUnsupportedVersion)
	}
	b.Language = unpackLanguage(readU16(data, offset))
	b.Pre_defined = readU16(data, offset+2)
	return b, size, nil
}

package box

import "fmt"

// aligned(8) class MovieExtendsHeaderBox extends FullBox('mehd', version, 0) {
//		if (version==1) {
//			unsigned int(64) fragment_duration;
//		} else {
//			unsigned int(32) fragment_duration;
//		}
// }
type MovieExtendsHeaderBox struct {
	Version           uint8
	Flags             uint32
	Fragment_duration uint64
}

const mehdBoxMinLen = FullBoxLen + 4

func (b *MovieExtendsHeaderBox) BoxType() [4]byte { return TypeMEHD }

func (b *MovieExtendsHeaderBox) BoxSize() uint32 {
	if b.Version == 1 {
		return FullBoxLen + 8
	}
	return FullBoxLen + 4
}

func (b *MovieExtendsHeaderBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeMEHD, b.Version, b.Flags)
	if b.Version == 1 {
		buf = appendUint64(buf, b.Fragment_duration)
	} else {
		buf = appendUint32(buf, uint32(b.Fragment_duration))
	}
	return buf
}

func decodeMehd(data []byte) (*MovieExtendsHeaderBox, int, error) {
	size, err := checkHeader(data, TypeMEHD, mehdBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &MovieExtendsHeaderBox{}
	b.Version, b.Flags = readFullPrefix(data)
	switch b.Version {
	case 0:
		b.Fragment_duration = uint64(readU32(data, FullBoxLen))
	case 1:
		if size < FullBoxLen+8 {
			return nil, 0, fmt.Errorf("mehd: declared %d for version 1: %w", size, ErrSizeMismatch)
		}
		b.Fragment_duration = readU64(data, FullBoxLen)
	default:
		return nil, 0, fmt.Errorf("mehd: version %d: %w", b.Version, ErrUnsupportedVersion)
	}
	return b, size, nil
}

package box

import "fmt"

// aligned(8) class TrackFragmentBaseMediaDecodeTimeBox extends FullBox('tfdt', version, 0) {
//		if (version==1) {
//			unsigned int(64) baseMediaDecodeTime;
//		} else {
//			unsigned int(32) baseMediaDecodeTime;
//		}
// }
type TrackFragmentBaseMediaDecodeTimeBox struct {
	Version             uint8
	Flags               uint32
	BaseMediaDecodeTime uint64
}

const tfdtBoxMinLen = FullBoxLen + 4

// NewTrackFragmentBaseMediaDecodeTimeBox always takes the 64-bit form so
// decode times survive long-running sessions.
func NewTrackFragmentBaseMediaDecodeTimeBox(baseMediaDecodeTime uint64) *TrackFragmentBaseMediaDecodeTimeBox {
	return &TrackFragmentBaseMediaDecodeTimeBox{Version: 1, BaseMediaDecodeTime: baseMediaDecodeTime}
}

func (b *TrackFragmentBaseMediaDecodeTimeBox) BoxType() [4]byte { return TypeTFDT }

func (b *TrackFragmentBaseMediaDecodeTimeBox) BoxSize() uint32 {
	if b.Version == 1 {
		return FullBoxLen + 8
	}
	return FullBoxLen + 4
}

func (b *TrackFragmentBaseMediaDecodeTimeBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeTFDT, b.Version, b.Flags)
	if b.Version == 1 {
		buf = appendUint64(buf, b.BaseMediaDecodeTime)
	} else {
		buf = appendUint32(buf, uint32(b.BaseMediaDecodeTime))
	}
	return buf
}

func decodeTfdt(data []byte) (*TrackFragmentBaseMediaDecodeTimeBox, int, error) {
	size, err := checkHeader(data, TypeTFDT, tfdtBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &TrackFragmentBaseMediaDecodeTimeBox{}
	b.Version, b.Flags = readFullPrefix(data)
	switch b.Version {
	case 0:
		b.BaseMediaDecodeTime = uint64(readU32(data, FullBoxLen))
	case 1:
		if size < FullBoxLen+8 {
			return nil, 0, fmt.Errorf("tfdt: declared %d for version 1: %w", size, ErrSizeMismatch)
		}
		b.BaseMediaDecodeTime = readU64(data, FullBoxLen)
	default:
		return nil, 0, fmt.Errorf("tfdt: version %d: %w", b.Version, ErrUnsupportedVersion)
	}
	return b, size, nil
}

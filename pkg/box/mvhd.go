package box

import "fmt"

// aligned(8) class MovieHeaderBox extends FullBox('mvhd', version, 0) {
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
//		template int(32) rate = 0x00010000;
//		template int(16) volume = 0x0100;
//		const bit(16) reserved = 0;
//		const unsigned int(32)[2] reserved = 0;
//		template int(32)[9] matrix;
//		bit(32)[6] pre_defined = 0;
//		unsigned int(32) next_track_ID;
// }
type MovieHeaderBox struct {
	Version           uint8
	Creation_time     uint64
	Modification_time uint64
	Timescale         uint32
	Duration          uint64
	Rate              uint32
	Volume            uint16
	Next_track_ID     uint32
}

const (
	mvhdBoxLenV0 = 108
	mvhdBoxLenV1 = 120
)

// unityMatrix is the identity transform in the 16.16/2.30 fixed-point
// layout shared by mvhd and tkhd.
var unityMatrix = [36]byte{
	0x00, 0x01, 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0x00, 0x01, 0x00, 0x00, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0x40, 0x00, 0x00, 0x00,
}

func NewMovieHeaderBox(timescale uint32) *MovieHeaderBox {
	return &MovieHeaderBox{
		Timescale:     timescale,
		Rate:          0x00010000,
		Volume:        0x0100,
		Next_track_ID: 2,
	}
}

func (b *MovieHeaderBox) BoxType() [4]byte { return TypeMVHD }

func (b *MovieHeaderBox) BoxSize() uint32 {
	if b.Version == 1 {
		return mvhdBoxLenV1
	}
	return mvhdBoxLenV0
}

func (b *MovieHeaderBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeMVHD, b.Version, 0)
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
	buf = appendUint32(buf, b.Rate)
	buf = appendUint16(buf, b.Volume)
	buf = appendZero(buf, 10)
	buf = append(buf, unityMatrix[:]...)
	buf = appendZero(buf, 24)
	return appendUint32(buf, b.Next_track_ID)
}

func decodeMvhd(data []byte) (*MovieHeaderBox, int, error) {
	size, err := checkHeader(data, TypeMVHD, mvhdBoxLenV0)
	if err != nil {
		return nil, 0, err
	}
	b := &MovieHeaderBox{Version: data[8]}
	offset := FullBoxLen
	switch b.Version {
	case 0:
		b.Creation_time = uint64(readU32(data, offset))
		b.Modification_time = uint64(readU32(data, offset+4))
		b.Timescale = readU32(data, offset+8)
		b.Duration = uint64(readU32(data, offset+12))
		offset += 16
	case 1:
		if size < mvhdBoxLenV1 {
			return nil, 0, fmt.Errorf("mvhd: declared %d for version 1: %w", size, ErrSizeMismatch)
		}
		b.Creation_time = readU64(data, offset)
		b.Modification_time = readU64(data, offset+8)
		b.Timescale = readU32(data, offset+16)
		b.Duration = readU64(data, offset+20)
		offset += 28
	default:
		return nil, 0, fmt.Errorf("mvhd: version %d: %w", b.Version, ErrUnsupportedVersion)
	}
	b.Rate = readU32(data, offset)
	b.Volume = readU16(data, offset+4)
	// reserved(10) + matrix(36) + pre_defined(24) separate volume and
	// next_track_ID
	b.Next_track_ID = readU32(data, offset+76)
	return b, size, nil
}

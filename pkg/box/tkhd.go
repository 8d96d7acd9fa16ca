package box

import "fmt"

const (
	TKHD_FLAG_ENABLED    uint32 = 0x000001
	TKHD_FLAG_IN_MOVIE   uint32 = 0x000002
	TKHD_FLAG_IN_PREVIEW uint32 = 0x000004
)

// aligned(8) class TrackHeaderBox extends FullBox('tkhd', version, flags) {
//		if (version==1) {
//			unsigned int(64) creation_time;
//			unsigned int(64) modification_time;
//			unsigned int(32) track_ID;
//			const unsigned int(32) reserved = 0;
//			unsigned int(64) duration;
//		} else {
//			unsigned int(32) creation_time;
//			unsigned int(32) modification_time;
//			unsigned int(32) track_ID;
//			const unsigned int(32) reserved = 0;
//			unsigned int(32) duration;
//		}
//		const unsigned int(32)[2] reserved = 0;
//		template int(16) layer = 0;
//		template int(16) alternate_group = 0;
//		template int(16) volume = {if track_is_audio 0x0100 else 0};
//		const unsigned int(16) reserved = 0;
//		template int(32)[9] matrix;
//		unsigned int(32) width;
//		unsigned int(32) height;
// }
//
// Width and height are 16.16 fixed point.
type TrackHeaderBox struct {
	Version           uint8
	Flags             uint32
	Creation_time     uint64
	Modification_time uint64
	Track_ID          uint32
	Duration          uint64
	Layer             int16
	Alternate_group   int16
	Volume            uint16
	Width             uint32
	Height            uint32
}

const (
	tkhdBoxLenV0 = 92
	tkhdBoxLenV1 = 104
)

func NewTrackHeaderBox(trackID uint32) *TrackHeaderBox {
	return &TrackHeaderBox{
		Flags:    TKHD_FLAG_ENABLED | TKHD_FLAG_IN_MOVIE | TKHD_FLAG_IN_PREVIEW,
		Track_ID: trackID,
		Width:    640 << 16,
		Height:   480 << 16,
	}
}

func (b *TrackHeaderBox) BoxType() [4]byte { return TypeTKHD }

func (b *TrackHeaderBox) BoxSize() uint32 {
	if b.Version == 1 {
		return tkhdBoxLenV1
	}
	return tkhdBoxLenV0
}

func (b *TrackHeaderBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeTKHD, b.Version, b.Flags)
	if b.Version == 1 {
		buf = appendUint64(buf, b.Creation_time)
		buf = appendUint64(buf, b.Modification_time)
		buf = appendUint32(buf, b.Track_ID)
		buf = appendZero(buf, 4)
		buf = appendUint64(buf, b.Duration)
	} else {
		buf = appendUint32(buf, uint32(b.Creation_time))
		buf = appendUint32(buf, uint32(b.Modification_time))
		buf = appendUint32(buf, b.Track_ID)
		buf = appendZero(buf, 4)
		buf = appendUint32(buf, uint32(b.Duration))
	}
	buf = appendZero(buf, 8)
	buf = appendBE(buf, b.Layer, 2)
	buf = appendBE(buf, b.Alternate_group, 2)
	buf = appendUint16(buf, b.Volume)
	buf = appendZero(buf, 2)
	buf = append(buf, unityMatrix[:]...)
	buf = appendUint32(buf, b.Width)
	return appendUint32(buf, b.Height)
}

func decodeTkhd(data []byte) (*TrackHeaderBox, int, error) {
	size, err := checkHeader(data, TypeTKHD, tkhdBoxLenV0)
	if err != nil {
		return nil, 0, err
	}
	b := &TrackHeaderBox{}
	b.Version, b.Flags = readFullPrefix(data)
	offset := FullBoxLen
	switch b.Version {
	case 0:
		b.Creation_time = uint64(readU32(data, offset))
		b.Modification_time = uint64(readU32(data, offset+4))
		b.Track_ID = readU32(data, offset+8)
		b.Duration = uint64(readU32(data, offset+16))
		offset += 20
	case 1:
		if size < tkhdBoxLenV1 {
			return nil, 0, fmt.Errorf("tkhd: declared %d for version 1: %w", size, ErrSizeMismatch)
		}
		b.Creation_time = readU64(data, offset)
		b.Modification_time = readU64(data, offset+8)
		b.Track_ID = readU32(data, offset+16)
		b.Duration = readU64(data, offset+24)
		offset += 32
	default:
		return nil, 0, fmt.Errorf("tkhd: version %d: %w", b.Version, ErrUnsupportedVersion)
	}
	offset += 8 // reserved
	b.Layer = int16(readU16(data, offset))
	b.Alternate_group = int16(readU16(data, offset+2))
	b.Volume = readU16(data, offset+4)
	offset += 8 + 36 // reserved + matrix
	b.Width = readU32(data, offset)
	b.Height = readU32(data, offset+4)
	return b, size, nil
}

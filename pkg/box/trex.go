package box

// aligned(8) class TrackExtendsBox extends FullBox('trex', 0, 0) {
//		unsigned int(32) track_ID;
//		unsigned int(32) default_sample_description_index;
//		unsigned int(32) default_sample_duration;
//		unsigned int(32) default_sample_size;
//		unsigned int(32) default_sample_flags;
// }
type TrackExtendsBox struct {
	Version                       uint8
	Flags                         uint32
	TrackID                       uint32
	DefaultSampleDescriptionIndex uint32
	DefaultSampleDuration         uint32
	DefaultSampleSize             uint32
	DefaultSampleFlags            uint32
}

const trexBoxLen = FullBoxLen + 20

func NewTrackExtendsBox(trackID, defaultSampleDuration uint32) *TrackExtendsBox {
	return &TrackExtendsBox{
		TrackID:                       trackID,
		DefaultSampleDescriptionIndex: 1,
		DefaultSampleDuration:         defaultSampleDuration,
		DefaultSampleFlags:            MOV_FRAG_SAMPLE_FLAG_DEPENDS_NO,
	}
}

func (b *TrackExtendsBox) BoxType() [4]byte { return TypeTREX }

func (b *TrackExtendsBox) BoxSize() uint32 { return trexBoxLen }

func (b *TrackExtendsBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, trexBoxLen, TypeTREX, b.Version, b.Flags)
	buf = appendUint32(buf, b.TrackID)
	buf = appendUint32(buf, b.DefaultSampleDescriptionIndex)
	buf = appendUint32(buf, b.DefaultSampleDuration)
	buf = appendUint32(buf, b.DefaultSampleSize)
	buf = appendUint32(buf, b.DefaultSampleFlags)
	return buf
}

func decodeTrex(data []byte) (*TrackExtendsBox, int, error) {
	size, err := checkHeader(data, TypeTREX, trexBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &TrackExtendsBox{}
	b.Version, b.Flags = readFullPrefix(data)
	b.TrackID = readU32(data, 12)
	b.DefaultSampleDescriptionIndex = readU32(data, 16)
	b.DefaultSampleDuration = readU32(data, 20)
	b.DefaultSampleSize = readU32(data, 24)
	b.DefaultSampleFlags = readU32(data, 28)
	return b, size, nil
}

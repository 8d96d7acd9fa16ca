package box

import "fmt"

const (
	TF_FLAG_BASE_DATA_OFFSET         uint32 = 0x000001
	TF_FLAG_SAMPLE_DESCRIPTION_INDEX uint32 = 0x000002
	TF_FLAG_DEFAULT_SAMPLE_DURATION  uint32 = 0x000008
	TF_FLAG_DEFAULT_SAMPLE_SIZE      uint32 = 0x000010
	TF_FLAG_DEFAULT_SAMPLE_FLAGS     uint32 = 0x000020
	TF_FLAG_DURATION_IS_EMPTY        uint32 = 0x010000
	TF_FLAG_DEFAULT_BASE_IS_MOOF     uint32 = 0x020000
)

const (
	MOV_FRAG_SAMPLE_FLAG_DEGRADATION_PRIORITY_MASK uint32 = 0x0000ffff
	MOV_FRAG_SAMPLE_FLAG_IS_NON_SYNC               uint32 = 0x00010000
	MOV_FRAG_SAMPLE_FLAG_PADDING_MASK              uint32 = 0x000e0000
	MOV_FRAG_SAMPLE_FLAG_REDUNDANCY_MASK           uint32 = 0x00300000
	MOV_FRAG_SAMPLE_FLAG_DEPENDED_MASK             uint32 = 0x00c00000
	MOV_FRAG_SAMPLE_FLAG_DEPENDS_MASK              uint32 = 0x03000000

	MOV_FRAG_SAMPLE_FLAG_DEPENDS_NO  uint32 = 0x02000000
	MOV_FRAG_SAMPLE_FLAG_DEPENDS_YES uint32 = 0x01000000
)

// aligned(8) class TrackFragmentHeaderBox extends FullBox('tfhd', 0, tf_flags) {
//		unsigned int(32) track_ID;
//		// all the following are optional fields
//		unsigned int(64) base_data_offset;
//		unsigned int(32) sample_description_index;
//		unsigned int(32) default_sample_duration;
//		unsigned int(32) default_sample_size;
//		unsigned int(32) default_sample_flags;
// }
type TrackFragmentHeaderBox struct {
	Version                uint8
	Flags                  uint32
	TrackID                uint32
	BaseDataOffset         uint64
	SampleDescriptionIndex uint32
	DefaultSampleDuration  uint32
	DefaultSampleSize      uint32
	DefaultSampleFlags     uint32
}

const tfhdBoxMinLen = FullBoxLen + 4

func NewTrackFragmentHeaderBox(trackID uint32) *TrackFragmentHeaderBox {
	return &TrackFragmentHeaderBox{TrackID: trackID}
}

func (b *TrackFragmentHeaderBox) BoxType() [4]byte { return TypeTFHD }

func (b *TrackFragmentHeaderBox) BoxSize() uint32 {
	size := uint32(tfhdBoxMinLen)
	if b.Flags&TF_FLAG_BASE_DATA_OFFSET != 0 {
		size += 8
	}
	if b.Flags&TF_FLAG_SAMPLE_DESCRIPTION_INDEX != 0 {
		size += 4
	}
	if b.Flags&TF_FLAG_DEFAULT_SAMPLE_DURATION != 0 {
		size += 4
	}
	if b.Flags&TF_FLAG_DEFAULT_SAMPLE_SIZE != 0 {
		size += 4
	}
	if b.Flags&TF_FLAG_DEFAULT_SAMPLE_FLAGS != 0 {
		size += 4
	}
	return size
}

func (b *TrackFragmentHeaderBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeTFHD, b.Version, b.Flags)
	buf = appendUint32(buf, b.TrackID)
	if b.Flags&TF_FLAG_BASE_DATA_OFFSET != 0 {
		buf = appendUint64(buf, b.BaseDataOffset)
	}
	if b.Flags&TF_FLAG_SAMPLE_DESCRIPTION_INDEX != 0 {
		buf = appendUint32(buf, b.SampleDescriptionIndex)
	}
	if b.Flags&TF_FLAG_DEFAULT_SAMPLE_DURATION != 0 {
		buf = appendUint32(buf, b.DefaultSampleDuration)
	}
	if b.Flags&TF_FLAG_DEFAULT_SAMPLE_SIZE != 0 {
		buf = appendUint32(buf, b.DefaultSampleSize)
	}
	if b.Flags&TF_FLAG_DEFAULT_SAMPLE_FLAGS != 0 {
		buf = appendUint32(buf, b.DefaultSampleFlags)
	}
	return buf
}

func decodeTfhd(data []byte) (*TrackFragmentHeaderBox, int, error) {
	size, err := checkHeader(data, TypeTFHD, tfhdBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &TrackFragmentHeaderBox{}
	b.Version, b.Flags = readFullPrefix(data)
	b.TrackID = readU32(data, 12)
	if size < int(b.BoxSize()) {
		return nil, 0, fmt.Errorf("tfhd: declared %d for flags %#06x: %w", size, b.Flags, ErrSizeMismatch)
	}
	offset := tfhdBoxMinLen
	if b.Flags&TF_FLAG_BASE_DATA_OFFSET != 0 {
		b.BaseDataOffset = readU64(data, offset)
		offset += 8
	}
	if b.Flags&TF_FLAG_SAMPLE_DESCRIPTION_INDEX != 0 {
		b.SampleDescriptionIndex = readU32(data, offset)
		offset += 4
	}
	if b.Flags&TF_FLAG_DEFAULT_SAMPLE_DURATION != 0 {
		b.DefaultSampleDuration = readU32(data, offset)
		offset += 4
	}
	if b.Flags&TF_FLAG_DEFAULT_SAMPLE_SIZE != 0 {
		b.DefaultSampleSize = readU32(data, offset)
		offset += 4
	}
	if b.Flags&TF_FLAG_DEFAULT_SAMPLE_FLAGS != 0 {
		b.DefaultSampleFlags = readU32(data, offset)
	}
	return b, size, nil
}

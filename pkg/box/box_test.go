package box

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFullBoxPrefix(t *testing.T) {
	buf := appendFullHeader(nil, 16, TypeMFHD, 3, 0xFFABCDEF)
	require.Len(t, buf, FullBoxLen)
	version, flags := readFullPrefix(buf)
	require.Equal(t, uint8(3), version)
	require.Equal(t, uint32(0x00ABCDEF), flags, "flags are 24 bits")
}

func TestCheckHeader(t *testing.T) {
	data := NewMovieFragmentHeaderBox(7).Marshal(nil)

	t.Run("ok", func(t *testing.T) {
		size, err := checkHeader(data, TypeMFHD, mfhdBoxLen)
		require.NoError(t, err)
		require.Equal(t, mfhdBoxLen, size)
	})
	t.Run("buffer_below_minimum", func(t *testing.T) {
		_, err := checkHeader(data[:10], TypeMFHD, mfhdBoxLen)
		require.ErrorIs(t, err, ErrTooSmall)
	})
	t.Run("declared_size_exceeds_buffer", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[3] = 99
		_, err := checkHeader(bad, TypeMFHD, mfhdBoxLen)
		require.ErrorIs(t, err, ErrIncomplete)
	})
	t.Run("declared_size_below_header", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[3] = 4
		_, err := checkHeader(bad, TypeMFHD, mfhdBoxLen)
		require.ErrorIs(t, err, ErrIncomplete)
	})
	t.Run("wrong_tag", func(t *testing.T) {
		_, err := checkHeader(data, TypeTFDT, tfdtBoxMinLen)
		require.ErrorIs(t, err, ErrWrongType)
	})
}

func TestWrongTag(t *testing.T) {
	data := NewMovieHeaderBox(30000).Marshal(nil)
	_, _, err := decodeTkhd(data)
	require.ErrorIs(t, err, ErrWrongType)
}

func TestUnsupportedVersion(t *testing.T) {
	data := NewMovieHeaderBox(30000).Marshal(nil)
	data[8] = 2
	_, _, err := decodeMvhd(data)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestScanChildrenBounds(t *testing.T) {
	t.Run("trailing_runt_bytes", func(t *testing.T) {
		data := appendHeader(nil, 12, TypeEDTS)
		data = append(data, 0, 0, 0, 0)
		_, _, err := decodeEdts(data)
		require.ErrorIs(t, err, ErrTooSmall)
	})
	t.Run("sub_box_below_header", func(t *testing.T) {
		data := appendHeader(nil, 16, TypeEDTS)
		data = appendUint32(data, 4)
		data = append(data, 'f', 'r', 'e', 'e')
		_, _, err := decodeEdts(data)
		require.ErrorIs(t, err, ErrSizeMismatch)
	})
	t.Run("sub_box_overruns_parent", func(t *testing.T) {
		data := appendHeader(nil, 16, TypeEDTS)
		data = appendUint32(data, 64)
		data = append(data, 'f', 'r', 'e', 'e')
		_, _, err := decodeEdts(data)
		require.ErrorIs(t, err, ErrSizeMismatch)
	})
}

func TestDuplicateChild(t *testing.T) {
	mvhd := NewMovieHeaderBox(30000).Marshal(nil)
	data := appendHeader(nil, uint32(BasicBoxLen+2*len(mvhd)), TypeMOOV)
	data = append(data, mvhd...)
	data = append(data, mvhd...)
	_, _, err := decodeMoov(data)
	require.ErrorIs(t, err, ErrDuplicateChild)
}

func TestMissingChild(t *testing.T) {
	mvhd := NewMovieHeaderBox(30000).Marshal(nil)
	data := appendHeader(nil, uint32(BasicBoxLen+len(mvhd)), TypeMOOV)
	data = append(data, mvhd...)
	_, _, err := decodeMoov(data)
	require.ErrorIs(t, err, ErrMissingChild)
}

// A 15-byte buffer claiming to be co64 is rejected before any entry
// arithmetic, and an entry count that overruns the payload is a size
// error rather than an out-of-range read.
func TestChunkLargeOffsetBounds(t *testing.T) {
	t.Run("fifteen_byte_buffer", func(t *testing.T) {
		data := appendHeader(nil, 16, TypeCO64)
		data = appendUint32(data, 0)
		data = append(data, 0, 0, 0)
		_, _, err := decodeCo64(data)
		require.ErrorIs(t, err, ErrTooSmall)
	})
	t.Run("count_overruns_payload", func(t *testing.T) {
		data := appendHeader(nil, 32, TypeCO64)
		data = appendUint32(data, 0)
		data = appendUint32(data, 5)
		data = appendZero(data, 16)
		_, _, err := decodeCo64(data)
		require.ErrorIs(t, err, ErrSizeMismatch)
	})
}

func TestVersionedBoxes(t *testing.T) {
	boxes := []Box{
		&MovieHeaderBox{Version: 1, Creation_time: 1 << 40, Modification_time: 2, Timescale: 30000,
			Duration: 1 << 35, Rate: 0x00010000, Volume: 0x0100, Next_track_ID: 9},
		&TrackHeaderBox{Version: 1, Flags: TKHD_FLAG_ENABLED, Creation_time: 5, Modification_time: 6,
			Track_ID: 3, Duration: 1 << 33, Layer: -1, Alternate_group: 2, Volume: 0x0100,
			Width: 1920 << 16, Height: 1080 << 16},
		&MediaHeaderBox{Version: 1, Creation_time: 7, Modification_time: 8, Timescale: 90000,
			Duration: 1 << 34, Language: "eng"},
		&EditListBox{Version: 1, Entries: []EditListEntry{
			{Segment_duration: 1 << 33, Media_time: -1, Media_rate: 1}}},
		&CompositionOffsetBox{Version: 1, Entries: []CompositionOffsetEntry{
			{SampleCount: 1, SampleOffset: -500}}},
		&MovieExtendsHeaderBox{Version: 1, Fragment_duration: 1 << 36},
		&TrackFragmentBaseMediaDecodeTimeBox{Version: 1, BaseMediaDecodeTime: 1 << 50},
	}
	for _, want := range boxes {
		t.Run(FourCC(want.BoxType())+"_v1", func(t *testing.T) {
			data := want.Marshal(nil)
			require.Len(t, data, int(want.BoxSize()))
			got, n, err := ReadBox(data)
			require.NoError(t, err)
			require.Equal(t, len(data), n)
			require.Equal(t, want, got)
		})
	}
}

func TestTrackFragmentHeaderFlags(t *testing.T) {
	want := &TrackFragmentHeaderBox{
		Flags: TF_FLAG_BASE_DATA_OFFSET | TF_FLAG_SAMPLE_DESCRIPTION_INDEX |
			TF_FLAG_DEFAULT_SAMPLE_DURATION | TF_FLAG_DEFAULT_SAMPLE_SIZE | TF_FLAG_DEFAULT_SAMPLE_FLAGS,
		TrackID:                7,
		BaseDataOffset:         1 << 40,
		SampleDescriptionIndex: 2,
		DefaultSampleDuration:  1000,
		DefaultSampleSize:      4096,
		DefaultSampleFlags:     MOV_FRAG_SAMPLE_FLAG_DEPENDS_YES | MOV_FRAG_SAMPLE_FLAG_IS_NON_SYNC,
	}
	data := want.Marshal(nil)
	require.Len(t, data, int(want.BoxSize()))

	got, n, err := decodeTfhd(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, want, got)

	// Declared size below the flag-derived layout.
	short := append([]byte(nil), data[:20]...)
	short[3] = 20
	_, _, err = decodeTfhd(short)
	require.ErrorIs(t, err, ErrSizeMismatch)
}

func TestTrackRunGuards(t *testing.T) {
	data := NewTrackRunBox(100, 1024).Marshal(nil)

	t.Run("foreign_flags", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[11] = 0x01
		_, _, err := decodeTrun(bad)
		require.ErrorIs(t, err, ErrUnsupportedFlags)
	})
	t.Run("multi_sample_run", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[15] = 2
		_, _, err := decodeTrun(bad)
		require.ErrorIs(t, err, ErrSizeMismatch)
	})
}

type lyingBox struct{}

func (lyingBox) BoxType() [4]byte        { return f("bad ") }
func (lyingBox) BoxSize() uint32         { return 12 }
func (lyingBox) Marshal(b []byte) []byte { return appendHeader(b, 12, f("bad ")) }

func TestMarshalChildSizePanic(t *testing.T) {
	require.Panics(t, func() { marshalChild(nil, lyingBox{}) })
}

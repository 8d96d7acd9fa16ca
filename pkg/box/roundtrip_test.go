package box

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// roundTripCases covers every box kind the dispatch table knows, plus
// an unknown tag. Versioned boxes appear here in their version-0 form;
// the version-1 widths live in TestVersionedBoxes.
var roundTripCases = []struct {
	name string
	box  Box
}{
	{"ftyp", NewFileTypeBox()},
	{"styp", NewSegmentTypeBox()},
	{"mvhd_v0", &MovieHeaderBox{Timescale: 30000, Duration: 3510080100,
		Rate: 0x00010000, Volume: 0x0100, Next_track_ID: 2}},
	{"tkhd_v0", &TrackHeaderBox{Flags: TKHD_FLAG_ENABLED | TKHD_FLAG_IN_MOVIE,
		Track_ID: 1, Duration: 90000, Width: 1920 << 16, Height: 1080 << 16}},
	{"mdhd_v0", &MediaHeaderBox{Timescale: 30000, Duration: 12345, Language: "und"}},
	{"hdlr", NewHandlerBox()},
	{"hdlr_empty_name", &HandlerBox{Handler_type: f("meta")}},
	{"vmhd", &VideoMediaHeaderBox{Flags: 0x000001, Graphicsmode: 2, Opcolor: [3]uint16{1, 2, 3}}},
	{"smhd", &SoundMediaHeaderBox{Balance: -2}},
	{"dinf", NewDataInformationBox()},
	{"dref_with_location", &DataReferenceBox{
		Entries: []*DataEntryUrlBox{{Location: "segments.bin"}}}},
	{"stsd_pccc_config", &SampleDescriptionBox{Entries: []*VisualSampleEntry{{
		Data_format:     f("dra "),
		Width:           1920,
		Height:          1080,
		Compressor_name: "PointCloudCodec_dra",
		Config:          []byte{0x01, 0x42, 0x00, 0x1e},
	}}}},
	{"stsd_no_config", &SampleDescriptionBox{Entries: []*VisualSampleEntry{NewVisualSampleEntry()}}},
	{"stts", &TimeToSampleBox{Entries: []TimeToSampleEntry{{30, 1000}, {1, 500}}}},
	{"ctts_v0", &CompositionOffsetBox{Entries: []CompositionOffsetEntry{{1, 0}, {2, 1000}}}},
	{"stss", &SyncSampleBox{Entries: []uint32{1, 31, 61}}},
	{"stsc", NewSampleToChunkBox()},
	{"stsz_table", &SampleSizeBox{SampleCount: 3, EntrySizes: []uint32{100, 200, 300}}},
	{"stsz_fixed", &SampleSizeBox{SampleSize: 1024, SampleCount: 30}},
	{"stco", &ChunkOffsetBox{Entries: []uint32{8, 4096}}},
	{"co64", &ChunkLargeOffsetBox{Entries: []uint64{1 << 33, 1 << 34}}},
	{"edts", &EditBox{Elst: &EditListBox{Entries: []EditListEntry{
		{Segment_duration: 3000, Media_time: -1, Media_rate: 1}}}}},
	{"udta", &UserDataBox{Meta: &MetaBox{Hdlr: &HandlerBox{Handler_type: f("mdir"), Name: "metadata"}}}},
	{"meta", &MetaBox{Hdlr: NewHandlerBox()}},
	{"mvex", &MovieExtendsBox{
		Mehd:  &MovieExtendsHeaderBox{Fragment_duration: 77},
		Trexs: []*TrackExtendsBox{NewTrackExtendsBox(1, 1000)}}},
	{"mehd_v0", &MovieExtendsHeaderBox{Fragment_duration: 1234}},
	{"trex", NewTrackExtendsBox(2, 512)},
	{"mfhd", NewMovieFragmentHeaderBox(42)},
	{"tfhd_no_optionals", NewTrackFragmentHeaderBox(1)},
	{"tfdt_v0", &TrackFragmentBaseMediaDecodeTimeBox{BaseMediaDecodeTime: 90000}},
	{"trun", NewTrackRunBox(132, 2048)},
	{"traf_header_only", &TrackFragmentBox{Tfhd: NewTrackFragmentHeaderBox(1)}},
	{"moof", &MovieFragmentBox{
		Mfhd: NewMovieFragmentHeaderBox(7),
		Trafs: []*TrackFragmentBox{{
			Tfhd: NewTrackFragmentHeaderBox(1),
			Tfdt: NewTrackFragmentBaseMediaDecodeTimeBox(3000),
			Trun: NewTrackRunBox(116, 1024),
		}}}},
	{"mdat", &MediaDataBox{Data: []byte("point cloud payload")}},
	{"unknown", &UnknownBox{Type: f("free"), Data: []byte{1, 2, 3}}},
}

// Marshal writes exactly BoxSize bytes and ReadBox restores an equal
// value consuming exactly those bytes.
func TestRoundTrip(t *testing.T) {
	for _, tc := range roundTripCases {
		t.Run(tc.name, func(t *testing.T) {
			data := tc.box.Marshal(nil)
			require.Len(t, data, int(tc.box.BoxSize()))

			got, n, err := ReadBox(data)
			require.NoError(t, err)
			require.Equal(t, len(data), n)
			require.Equal(t, tc.box, got)
		})
	}
}

// Every strict prefix of an encoded box is rejected with an error, and
// none of them panics. The declared size always exceeds a truncated
// buffer, so the decoders never reach entry arithmetic.
func TestTruncatedPrefixes(t *testing.T) {
	for _, tc := range roundTripCases {
		t.Run(tc.name, func(t *testing.T) {
			data := tc.box.Marshal(nil)
			for cut := 0; cut < len(data); cut++ {
				_, _, err := ReadBox(data[:cut])
				require.Error(t, err, "prefix of %d/%d bytes", cut, len(data))
			}
		})
	}
}

// An unfamiliar tag inside a known container lands in Unknown with its
// payload intact and survives re-encoding byte for byte.
func TestUnknownChildPreserved(t *testing.T) {
	free := &UnknownBox{Type: f("skip"), Data: []byte{0xde, 0xad, 0xbe, 0xef}}
	moof := &MovieFragmentBox{
		Mfhd: NewMovieFragmentHeaderBox(1),
		Trafs: []*TrackFragmentBox{{
			Tfhd: NewTrackFragmentHeaderBox(1),
			Trun: NewTrackRunBox(100, 16),
		}},
		Unknown: []*UnknownBox{free},
	}
	data := moof.Marshal(nil)

	got, n, err := decodeMoof(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Len(t, got.Unknown, 1)
	require.Equal(t, free, got.Unknown[0])
	require.Equal(t, data, got.Marshal(nil))
}

// dref rejects entries that are not 'url ' and entries that overrun
// the declared box.
func TestDataReferenceGuards(t *testing.T) {
	t.Run("foreign_entry_tag", func(t *testing.T) {
		data := appendFullHeader(nil, drefBoxMinLen+urlBoxMinLen, TypeDREF, 0, 0)
		data = appendUint32(data, 1)
		data = appendFullHeader(data, urlBoxMinLen, f("urn "), 0, 0)
		_, _, err := decodeDref(data)
		require.ErrorIs(t, err, ErrWrongType)
	})
	t.Run("entry_overruns_box", func(t *testing.T) {
		data := appendFullHeader(nil, drefBoxMinLen+urlBoxMinLen, TypeDREF, 0, 0)
		data = appendUint32(data, 1)
		data = appendFullHeader(data, 64, TypeURL, 0, 0)
		_, _, err := decodeDref(data)
		require.ErrorIs(t, err, ErrSizeMismatch)
	})
}

func TestSampleDescriptionGuards(t *testing.T) {
	t.Run("entry_below_visual_layout", func(t *testing.T) {
		data := appendFullHeader(nil, stsdBoxMinLen+8, TypeSTSD, 0, 0)
		data = appendUint32(data, 1)
		data = appendHeader(data, 8, f("dra "))
		_, _, err := decodeStsd(data)
		require.ErrorIs(t, err, ErrSizeMismatch)
	})
	t.Run("config_sub_box_overrun", func(t *testing.T) {
		entry := NewVisualSampleEntry()
		entry.Config = []byte{1, 2, 3, 4}
		box := &SampleDescriptionBox{Entries: []*VisualSampleEntry{entry}}
		data := box.Marshal(nil)
		// Inflate the config sub-box length past the entry end.
		data[stsdBoxMinLen+visualSampleEntryLen+3] = 0xFF
		_, _, err := decodeStsd(data)
		require.ErrorIs(t, err, ErrSizeMismatch)
	})
}

// The 15-bit packed language field keeps three-letter codes and folds
// anything else to "und".
func TestLanguagePacking(t *testing.T) {
	require.Equal(t, "eng", unpackLanguage(packLanguage("eng")))
	require.Equal(t, "und", unpackLanguage(packLanguage("")))
	require.Equal(t, "und", unpackLanguage(packLanguage("english")))
}

func TestCompressorNameTruncated(t *testing.T) {
	entry := NewVisualSampleEntry()
	entry.Compressor_name = "PointCloudCodec_with_a_very_long_suffix"
	box := &SampleDescriptionBox{Entries: []*VisualSampleEntry{entry}}
	data := box.Marshal(nil)
	require.Len(t, data, int(box.BoxSize()))

	got, _, err := decodeStsd(data)
	require.NoError(t, err)
	require.Equal(t, entry.Compressor_name[:31], got.Entries[0].Compressor_name)
}

// ReadBox consumes one box and reports its length so a caller can walk
// a concatenated buffer; a second box after the first is untouched.
func TestReadBoxConsumesOne(t *testing.T) {
	first := NewMovieFragmentHeaderBox(1).Marshal(nil)
	second := (&MediaDataBox{Data: []byte{9, 9}}).Marshal(nil)
	data := append(append([]byte(nil), first...), second...)

	got, n, err := ReadBox(data)
	require.NoError(t, err)
	require.Equal(t, len(first), n)
	require.IsType(t, &MovieFragmentHeaderBox{}, got)

	got, n, err = ReadBox(data[n:])
	require.NoError(t, err)
	require.Equal(t, len(second), n)
	require.Equal(t, []byte{9, 9}, got.(*MediaDataBox).Data)
}

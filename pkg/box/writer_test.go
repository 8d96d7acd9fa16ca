package box

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStreamConfig() StreamConfig {
	return StreamConfig{
		TrackID:               1,
		Timescale:             30000,
		DefaultSampleDuration: 1000,
		CodecFourCC:           f("dra "),
		CodecName:             "PointCloudCodec_dra",
		Width:                 1920,
		Height:                1080,
	}
}

func patternFrame(n int) []byte {
	frame := make([]byte, n)
	for i := range frame {
		frame[i] = byte(i * 7)
	}
	return frame
}

func TestCreateInitSegment(t *testing.T) {
	cfg := testStreamConfig()
	data := CreateInitSegment(cfg)

	boxes, err := ParseMP4Boxes(data)
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	ftyp, ok := boxes[0].(*FileTypeBox)
	require.True(t, ok, "init segment starts with ftyp")
	require.Equal(t, TypeFTYP, ftyp.BoxType())
	require.Equal(t, f("isom"), ftyp.Major_brand)

	moov, ok := boxes[1].(*MovieBox)
	require.True(t, ok)
	require.Equal(t, uint32(30000), moov.Mvhd.Timescale)
	require.Equal(t, uint64(initMovieDuration), moov.Mvhd.Duration)

	require.Len(t, moov.Traks, 1, "exactly one track")
	trak := moov.Traks[0]
	require.Equal(t, uint32(1), trak.Tkhd.Track_ID)
	require.Equal(t, uint32(1920)<<16, trak.Tkhd.Width)
	require.Equal(t, uint32(1080)<<16, trak.Tkhd.Height)
	require.Equal(t, uint32(30000), trak.Mdia.Mdhd.Timescale)
	require.Equal(t, f("vide"), trak.Mdia.Hdlr.Handler_type)
	require.NotNil(t, trak.Mdia.Minf.Vmhd)

	stbl := trak.Mdia.Minf.Stbl
	require.Len(t, stbl.Stsd.Entries, 1)
	entry := stbl.Stsd.Entries[0]
	require.Equal(t, f("dra "), entry.Data_format)
	require.Equal(t, uint16(1920), entry.Width)
	require.Equal(t, uint16(1080), entry.Height)
	require.Equal(t, "PointCloudCodec_dra", entry.Compressor_name)

	require.NotNil(t, moov.Mvex, "fragmented stream announces mvex")
	require.Equal(t, uint64(initMovieDuration), moov.Mvex.Mehd.Fragment_duration)
	require.Len(t, moov.Mvex.Trexs, 1)
	trex := moov.Mvex.Trexs[0]
	require.Equal(t, uint32(1), trex.TrackID)
	require.Equal(t, uint32(1000), trex.DefaultSampleDuration)
	require.Equal(t, uint32(1), trex.DefaultSampleDescriptionIndex)

	// Re-encoding the parsed tree reproduces the buffer byte for byte.
	out := ftyp.Marshal(nil)
	out = moov.Marshal(out)
	require.Equal(t, data, out)
}

func TestCreateMediaSegment(t *testing.T) {
	cfg := testStreamConfig()
	frame := patternFrame(1024)
	data := CreateMediaSegment(cfg, frame, 1, 0)

	boxes, err := ParseMP4Boxes(data)
	require.NoError(t, err)
	require.Len(t, boxes, 3)

	styp, ok := boxes[0].(*FileTypeBox)
	require.True(t, ok, "media segment starts with styp")
	require.Equal(t, TypeSTYP, styp.BoxType())

	moof, ok := boxes[1].(*MovieFragmentBox)
	require.True(t, ok)
	require.Equal(t, uint32(1), moof.Mfhd.SequenceNumber)
	require.Len(t, moof.Trafs, 1)

	traf := moof.Trafs[0]
	require.Equal(t, uint32(1), traf.Tfhd.TrackID)
	require.Equal(t, uint32(0), traf.Tfhd.Flags)
	require.Equal(t, uint64(0), traf.Tfdt.BaseMediaDecodeTime)
	require.Equal(t, TrunFlagDataOffsetSampleSize, traf.Trun.Flags)
	require.Equal(t, uint32(1), traf.Trun.SampleCount)
	require.Equal(t, uint32(1024), traf.Trun.SampleSize)
	require.Equal(t, int32(moof.BoxSize())+BasicBoxLen, traf.Trun.DataOffset)

	mdat, ok := boxes[2].(*MediaDataBox)
	require.True(t, ok)
	require.Equal(t, frame, mdat.Data)

	// The data offset, applied from the start of moof, lands on the
	// first mdat payload byte.
	payload := int(styp.BoxSize()) + int(traf.Trun.DataOffset)
	require.Equal(t, frame, data[payload:payload+len(frame)])

	out := styp.Marshal(nil)
	out = moof.Marshal(out)
	out = mdat.Marshal(out)
	require.Equal(t, data, out)
}

func TestMediaSegmentDecodeTime(t *testing.T) {
	data := CreateMediaSegment(testStreamConfig(), []byte{1}, 900, 1<<40)
	boxes, err := ParseMP4Boxes(data)
	require.NoError(t, err)

	moof := boxes[1].(*MovieFragmentBox)
	require.Equal(t, uint32(900), moof.Mfhd.SequenceNumber)
	tfdt := moof.Trafs[0].Tfdt
	require.Equal(t, uint8(1), tfdt.Version, "decode times are written 64-bit")
	require.Equal(t, uint64(1)<<40, tfdt.BaseMediaDecodeTime)
}

// Every media segment carries exactly one sample regardless of frame
// size; the run's size and the data offset follow the frame.
func TestOneSamplePerFragment(t *testing.T) {
	cfg := testStreamConfig()
	for _, n := range []int{0, 1, 31, 1024, 65536} {
		data := CreateMediaSegment(cfg, patternFrame(n), 5, 5000)
		boxes, err := ParseMP4Boxes(data)
		require.NoError(t, err)

		moof := boxes[1].(*MovieFragmentBox)
		trun := moof.Trafs[0].Trun
		require.Equal(t, uint32(1), trun.SampleCount, "frame of %d bytes", n)
		require.Equal(t, uint32(n), trun.SampleSize)
		require.Equal(t, int32(moof.BoxSize())+BasicBoxLen, trun.DataOffset)
		require.Len(t, boxes[2].(*MediaDataBox).Data, n)
	}
}

// A full stream is the init segment followed by media segments; the
// whole concatenation parses and the frames come back out in order.
func TestStreamedSegments(t *testing.T) {
	cfg := testStreamConfig()
	stream := CreateInitSegment(cfg)
	frames := [][]byte{patternFrame(100), patternFrame(200), patternFrame(300)}
	for i, frame := range frames {
		stream = append(stream, CreateMediaSegment(cfg, frame, uint32(i), uint64(i)*1000)...)
	}

	boxes, err := ParseMP4Boxes(stream)
	require.NoError(t, err)
	require.Len(t, boxes, 2+3*len(frames))

	mdats, err := ExtractMdatBoxes(stream)
	require.NoError(t, err)
	require.Len(t, mdats, len(frames))
	for i, mdat := range mdats {
		require.Equal(t, frames[i], mdat.Data)
	}
}

func TestExtractMdatBounds(t *testing.T) {
	data := CreateMediaSegment(testStreamConfig(), []byte{1, 2, 3}, 0, 0)

	t.Run("trailing_runt_bytes", func(t *testing.T) {
		_, err := ExtractMdatBoxes(append(append([]byte(nil), data...), 0, 0, 0))
		require.ErrorIs(t, err, ErrTooSmall)
	})
	t.Run("declared_size_overruns", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[3] = 0xFF // styp now claims to run past the buffer
		_, err := ExtractMdatBoxes(bad)
		require.ErrorIs(t, err, ErrIncomplete)
	})
}

func TestParseAbortsOnTrailingBytes(t *testing.T) {
	data := CreateInitSegment(testStreamConfig())
	bad := append(append([]byte(nil), data...), 0, 0)
	_, err := ParseMP4Boxes(bad)
	require.ErrorIs(t, err, ErrTooSmall)
}

func TestDumpTree(t *testing.T) {
	cfg := testStreamConfig()
	boxes, err := ParseMP4Boxes(CreateInitSegment(cfg))
	require.NoError(t, err)
	media, err := ParseMP4Boxes(CreateMediaSegment(cfg, []byte{1}, 3, 0))
	require.NoError(t, err)

	var sb strings.Builder
	Dump(&sb, append(boxes, media...))
	out := sb.String()
	require.Contains(t, out, "[moov]")
	require.Contains(t, out, "[trun]")
	require.Contains(t, out, "sequence_number=3")
	require.Contains(t, out, `compressor="PointCloudCodec_dra"`)
}

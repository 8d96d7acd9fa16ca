package box

// StreamConfig carries the per-track parameters the segment builders
// stamp into boxes. Timescale is typically fps*1000 so a default
// sample duration of 1000 gives fixed frame pacing.
type StreamConfig struct {
	TrackID               uint32
	Timescale             uint32
	DefaultSampleDuration uint32
	CodecFourCC           [4]byte
	CodecName             string
	Width                 uint16
	Height                uint16
}

// initMovieDuration is the placeholder duration stamped on init
// segments. A live session has no known end.
const initMovieDuration = 3510080100

// CreateInitSegment builds the CMAF initialization segment for one
// video track: ftyp, then moov carrying the movie and track headers,
// a sample description for the configured codec, empty-but-valid
// sample tables, and the mvex fragment defaults.
func CreateInitSegment(cfg StreamConfig) []byte {
	mvhd := NewMovieHeaderBox(cfg.Timescale)
	mvhd.Duration = initMovieDuration

	tkhd := NewTrackHeaderBox(cfg.TrackID)
	tkhd.Width = uint32(cfg.Width) << 16
	tkhd.Height = uint32(cfg.Height) << 16

	entry := NewVisualSampleEntry()
	entry.Data_format = cfg.CodecFourCC
	entry.Width = cfg.Width
	entry.Height = cfg.Height
	entry.Compressor_name = cfg.CodecName

	trak := &TrackBox{
		Tkhd: tkhd,
		Mdia: &MediaBox{
			Mdhd: NewMediaHeaderBox(cfg.Timescale),
			Hdlr: NewHandlerBox(),
			Minf: &MediaInformationBox{
				Vmhd: NewVideoMediaHeaderBox(),
				Dinf: NewDataInformationBox(),
				Stbl: &SampleTableBox{
					Stsd: &SampleDescriptionBox{Entries: []*VisualSampleEntry{entry}},
					Stts: NewTimeToSampleBox(),
					Stsc: NewSampleToChunkBox(),
					Stsz: NewSampleSizeBox(),
				},
			},
		},
	}

	moov := &MovieBox{
		Mvhd:  mvhd,
		Traks: []*TrackBox{trak},
		Mvex: &MovieExtendsBox{
			Mehd:  &MovieExtendsHeaderBox{Fragment_duration: initMovieDuration},
			Trexs: []*TrackExtendsBox{NewTrackExtendsBox(cfg.TrackID, cfg.DefaultSampleDuration)},
		},
	}

	buf := make([]byte, 0, 2048)
	buf = marshalChild(buf, NewFileTypeBox())
	buf = marshalChild(buf, moov)
	return buf
}

// CreateMediaSegment builds one CMAF media segment carrying exactly
// one encoded frame: styp, then moof (mfhd, traf: tfhd/tfdt/trun),
// then mdat with the frame bytes. The trun data offset points from
// the start of moof to the first mdat payload byte.
func CreateMediaSegment(cfg StreamConfig, frame []byte, sequenceNumber uint32, baseDecodeTime uint64) []byte {
	traf := &TrackFragmentBox{
		Tfhd: NewTrackFragmentHeaderBox(cfg.TrackID),
		Tfdt: NewTrackFragmentBaseMediaDecodeTimeBox(baseDecodeTime),
		Trun: NewTrackRunBox(0, uint32(len(frame))),
	}
	moof := &MovieFragmentBox{
		Mfhd:  NewMovieFragmentHeaderBox(sequenceNumber),
		Trafs: []*TrackFragmentBox{traf},
	}
	traf.Trun.DataOffset = int32(moof.BoxSize()) + BasicBoxLen

	styp := NewSegmentTypeBox()
	mdat := &MediaDataBox{Data: frame}

	buf := make([]byte, 0, styp.BoxSize()+moof.BoxSize()+mdat.BoxSize())
	buf = marshalChild(buf, styp)
	buf = marshalChild(buf, moof)
	buf = marshalChild(buf, mdat)
	return buf
}

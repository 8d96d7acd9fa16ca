package box

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable tree of boxes, one line per box with
// children indented. Inspection only; nothing here participates in
// encode or decode.
func Dump(w io.Writer, boxes []Box) {
	for _, b := range boxes {
		dumpBox(w, b, 0)
	}
}

// cappedBytes previews at most 8 payload bytes.
func cappedBytes(data []byte) string {
	if len(data) > 8 {
		return fmt.Sprintf("% x ...", data[:8])
	}
	return fmt.Sprintf("% x", data)
}

func brandList(brands [][4]byte) string {
	names := make([]string, len(brands))
	for i, brand := range brands {
		names[i] = FourCC(brand)
	}
	return strings.Join(names, ",")
}

func dumpBox(w io.Writer, b Box, depth int) {
	indent := strings.Repeat("  ", depth)
	head := func(format string, args ...any) {
		fmt.Fprintf(w, "%s[%s] size=%d ", indent, FourCC(b.BoxType()), b.BoxSize())
		fmt.Fprintf(w, format+"\n", args...)
	}
	switch v := b.(type) {
	case *FileTypeBox:
		head("major_brand=%s minor_version=%d compatible=%s", FourCC(v.Major_brand), v.Minor_version, brandList(v.Compatible_brands))
	case *MovieBox:
		head("")
		dumpBox(w, v.Mvhd, depth+1)
		for _, t := range v.Traks {
			dumpBox(w, t, depth+1)
		}
		if v.Mvex != nil {
			dumpBox(w, v.Mvex, depth+1)
		}
		if v.Meta != nil {
			dumpBox(w, v.Meta, depth+1)
		}
		if v.Udta != nil {
			dumpBox(w, v.Udta, depth+1)
		}
		dumpUnknown(w, v.Unknown, depth+1)
	case *MovieHeaderBox:
		head("version=%d timescale=%d duration=%d next_track_ID=%d", v.Version, v.Timescale, v.Duration, v.Next_track_ID)
	case *TrackBox:
		head("")
		dumpBox(w, v.Tkhd, depth+1)
		if v.Edts != nil {
			dumpBox(w, v.Edts, depth+1)
		}
		if v.Meta != nil {
			dumpBox(w, v.Meta, depth+1)
		}
		dumpBox(w, v.Mdia, depth+1)
		dumpUnknown(w, v.Unknown, depth+1)
	case *TrackHeaderBox:
		head("version=%d flags=%#06x track_ID=%d duration=%d width=%d height=%d", v.Version, v.Flags, v.Track_ID, v.Duration, v.Width>>16, v.Height>>16)
	case *EditBox:
		head("")
		if v.Elst != nil {
			dumpBox(w, v.Elst, depth+1)
		}
		dumpUnknown(w, v.Unknown, depth+1)
	case *EditListBox:
		head("entries=%d", len(v.Entries))
	case *UserDataBox:
		head("")
		if v.Meta != nil {
			dumpBox(w, v.Meta, depth+1)
		}
		dumpUnknown(w, v.Unknown, depth+1)
	case *MetaBox:
		head("version=%d", v.Version)
		if v.Hdlr != nil {
			dumpBox(w, v.Hdlr, depth+1)
		}
		dumpUnknown(w, v.Unknown, depth+1)
	case *MediaBox:
		head("")
		dumpBox(w, v.Mdhd, depth+1)
		dumpBox(w, v.Hdlr, depth+1)
		dumpBox(w, v.Minf, depth+1)
		dumpUnknown(w, v.Unknown, depth+1)
	case *MediaHeaderBox:
		head("version=%d timescale=%d duration=%d language=%s", v.Version, v.Timescale, v.Duration, v.Language)
	case *HandlerBox:
		head("handler_type=%s name=%q", FourCC(v.Handler_type), v.Name)
	case *MediaInformationBox:
		head("")
		if v.Vmhd != nil {
			dumpBox(w, v.Vmhd, depth+1)
		}
		if v.Smhd != nil {
			dumpBox(w, v.Smhd, depth+1)
		}
		dumpBox(w, v.Dinf, depth+1)
		dumpBox(w, v.Stbl, depth+1)
		dumpUnknown(w, v.Unknown, depth+1)
	case *VideoMediaHeaderBox:
		head("graphicsmode=%d", v.Graphicsmode)
	case *SoundMediaHeaderBox:
		head("balance=%d", v.Balance)
	case *DataInformationBox:
		head("")
		dumpBox(w, v.Dref, depth+1)
		dumpUnknown(w, v.Unknown, depth+1)
	case *DataReferenceBox:
		head("entries=%d", len(v.Entries))
		for _, e := range v.Entries {
			dumpBox(w, e, depth+1)
		}
	case *DataEntryUrlBox:
		head("flags=%#06x location=%q", v.Flags, v.Location)
	case *SampleTableBox:
		head("")
		dumpBox(w, v.Stsd, depth+1)
		dumpBox(w, v.Stts, depth+1)
		if v.Ctts != nil {
			dumpBox(w, v.Ctts, depth+1)
		}
		if v.Stss != nil {
			dumpBox(w, v.Stss, depth+1)
		}
		dumpBox(w, v.Stsc, depth+1)
		dumpBox(w, v.Stsz, depth+1)
		if v.Stco != nil {
			dumpBox(w, v.Stco, depth+1)
		}
		if v.Co64 != nil {
			dumpBox(w, v.Co64, depth+1)
		}
		dumpUnknown(w, v.Unknown, depth+1)
	case *SampleDescriptionBox:
		head("entries=%d", len(v.Entries))
		for _, e := range v.Entries {
			fmt.Fprintf(w, "%s  entry data_format=%s width=%d height=%d compressor=%q config=%s\n",
				indent, FourCC(e.Data_format), e.Width, e.Height, e.Compressor_name, cappedBytes(e.Config))
		}
	case *TimeToSampleBox:
		head("entries=%d", len(v.Entries))
	case *CompositionOffsetBox:
		head("version=%d entries=%d", v.Version, len(v.Entries))
	case *SyncSampleBox:
		head("entries=%d", len(v.Entries))
	case *SampleToChunkBox:
		head("entries=%d", len(v.Entries))
	case *SampleSizeBox:
		head("sample_size=%d sample_count=%d", v.SampleSize, v.SampleCount)
	case *ChunkOffsetBox:
		head("entries=%d", len(v.Entries))
	case *ChunkLargeOffsetBox:
		head("entries=%d", len(v.Entries))
	case *MovieExtendsBox:
		head("")
		if v.Mehd != nil {
			dumpBox(w, v.Mehd, depth+1)
		}
		for _, t := range v.Trexs {
			dumpBox(w, t, depth+1)
		}
		dumpUnknown(w, v.Unknown, depth+1)
	case *MovieExtendsHeaderBox:
		head("version=%d fragment_duration=%d", v.Version, v.Fragment_duration)
	case *TrackExtendsBox:
		head("track_ID=%d default_sample_duration=%d default_sample_flags=%#010x", v.TrackID, v.DefaultSampleDuration, v.DefaultSampleFlags)
	case *MovieFragmentBox:
		head("")
		dumpBox(w, v.Mfhd, depth+1)
		for _, t := range v.Trafs {
			dumpBox(w, t, depth+1)
		}
		dumpUnknown(w, v.Unknown, depth+1)
	case *MovieFragmentHeaderBox:
		head("sequence_number=%d", v.SequenceNumber)
	case *TrackFragmentBox:
		head("")
		dumpBox(w, v.Tfhd, depth+1)
		if v.Tfdt != nil {
			dumpBox(w, v.Tfdt, depth+1)
		}
		if v.Trun != nil {
			dumpBox(w, v.Trun, depth+1)
		}
		dumpUnknown(w, v.Unknown, depth+1)
	case *TrackFragmentHeaderBox:
		head("flags=%#06x track_ID=%d", v.Flags, v.TrackID)
	case *TrackFragmentBaseMediaDecodeTimeBox:
		head("version=%d baseMediaDecodeTime=%d", v.Version, v.BaseMediaDecodeTime)
	case *TrackRunBox:
		head("flags=%#06x sample_count=%d data_offset=%d sample_size=%d", v.Flags, v.SampleCount, v.DataOffset, v.SampleSize)
	case *MediaDataBox:
		head("data=%s", cappedBytes(v.Data))
	case *UnknownBox:
		head("data=%s", cappedBytes(v.Data))
	default:
		head("")
	}
}

func dumpUnknown(w io.Writer, boxes []*UnknownBox, depth int) {
	for _, u := range boxes {
		dumpBox(w, u, depth)
	}
}

package box

// aligned(8) class TrackFragmentBox extends Box('traf') {
// }
//
// tfhd is required. A fragment without tfdt inherits its decode time;
// one without trun carries no sample.
type TrackFragmentBox struct {
	Tfhd    *TrackFragmentHeaderBox
	Tfdt    *TrackFragmentBaseMediaDecodeTimeBox
	Trun    *TrackRunBox
	Unknown []*UnknownBox
}

func (b *TrackFragmentBox) BoxType() [4]byte { return TypeTRAF }

func (b *TrackFragmentBox) BoxSize() uint32 {
	size := uint32(BasicBoxLen) + b.Tfhd.BoxSize()
	if b.Tfdt != nil {
		size += b.Tfdt.BoxSize()
	}
	if b.Trun != nil {
		size += b.Trun.BoxSize()
	}
	for _, u := range b.Unknown {
		size += u.BoxSize()
	}
	return size
}

func (b *TrackFragmentBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), TypeTRAF)
	buf = marshalChild(buf, b.Tfhd)
	if b.Tfdt != nil {
		buf = marshalChild(buf, b.Tfdt)
	}
	if b.Trun != nil {
		buf = marshalChild(buf, b.Trun)
	}
	for _, u := range b.Unknown {
		buf = marshalChild(buf, u)
	}
	return buf
}

func decodeTraf(data []byte) (*TrackFragmentBox, int, error) {
	size, err := checkHeader(data, TypeTRAF, BasicBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &TrackFragmentBox{}
	err = scanChildren(data, size, TypeTRAF, func(t [4]byte, sub []byte) error {
		switch t {
		case TypeTFHD:
			if b.Tfhd != nil {
				return dupErr(TypeTRAF, t)
			}
			child, _, err := decodeTfhd(sub)
			if err != nil {
				return err
			}
			b.Tfhd = child
		case TypeTFDT:
			if b.Tfdt != nil {
				return dupErr(TypeTRAF, t)
			}
			child, _, err := decodeTfdt(sub)
			if err != nil {
				return err
			}
			b.Tfdt = child
		case TypeTRUN:
			if b.Trun != nil {
				return dupErr(TypeTRAF, t)
			}
			child, _, err := decodeTrun(sub)
			if err != nil {
				return err
			}
			b.Trun = child
		default:
			u, _, err := decodeUnknown(sub)
			if err != nil {
				return err
			}
			b.Unknown = append(b.Unknown, u)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if b.Tfhd == nil {
		return nil, 0, missErr(TypeTRAF, TypeTFHD)
	}
	return b, size, nil
}

package box

// aligned(8) class TrackBox extends Box('trak') {
// }
type TrackBox struct {
	Tkhd    *TrackHeaderBox
	Edts    *EditBox
	Meta    *MetaBox
	Mdia    *MediaBox
	Unknown []*UnknownBox
}

func (b *TrackBox) BoxType() [4]byte { return TypeTRAK }

func (b *TrackBox) BoxSize() uint32 {
	size := uint32(BasicBoxLen) + b.Tkhd.BoxSize()
	if b.Edts != nil {
		size += b.Edts.BoxSize()
	}
	if b.Meta != nil {
		size += b.Meta.BoxSize()
	}
	size += b.Mdia.BoxSize()
	for _, u := range b.Unknown {
		size += u.BoxSize()
	}
	return size
}

func (b *TrackBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), TypeTRAK)
	buf = marshalChild(buf, b.Tkhd)
	if b.Edts != nil {
		buf = marshalChild(buf, b.Edts)
	}
	if b.Meta != nil {
		buf = marshalChild(buf, b.Meta)
	}
	buf = marshalChild(buf, b.Mdia)
	for _, u := range b.Unknown {
		buf = marshalChild(buf, u)
	}
	return buf
}

func decodeTrak(data []byte) (*TrackBox, int, error) {
	size, err := checkHeader(data, TypeTRAK, BasicBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &TrackBox{}
	err = scanChildren(data, size, TypeTRAK, func(t [4]byte, sub []byte) error {
		switch t {
		case TypeTKHD:
			if b.Tkhd != nil {
				return dupErr(TypeTRAK, t)
			}
			child, _, err := decodeTkhd(sub)
			if err != nil {
				return err
			}
			b.Tkhd = child
		case TypeEDTS:
			if b.Edts != nil {
				return dupErr(TypeTRAK, t)
			}
			child, _, err := decodeEdts(sub)
			if err != nil {
				return err
			}
			b.Edts = child
		case TypeMETA:
			if b.Meta != nil {
				return dupErr(TypeTRAK, t)
			}
			child, _, err := decodeMeta(sub)
			if err != nil {
				return err
			}
			b.Meta = child
		case TypeMDIA:
			if b.Mdia != nil {
				return dupErr(TypeTRAK, t)
			}
			child, _, err := decodeMdia(sub)
			if err != nil {
				return err
			}
			b.Mdia = child
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
	if b.Tkhd == nil {
		return nil, 0, missErr(TypeTRAK, TypeTKHD)
	}
	if b.Mdia == nil {
		return nil, 0, missErr(TypeTRAK, TypeMDIA)
	}
	return b, size, nil
}

package box

// aligned(8) class MovieBox extends Box('moov') {
// }
//
// One mvhd and at least one trak. Fragmented streams also carry an
// mvex announcing the moof defaults.
type MovieBox struct {
	Mvhd    *MovieHeaderBox
	Traks   []*TrackBox
	Mvex    *MovieExtendsBox
	Meta    *MetaBox
	Udta    *UserDataBox
	Unknown []*UnknownBox
}

func (b *MovieBox) BoxType() [4]byte { return TypeMOOV }

func (b *MovieBox) BoxSize() uint32 {
	size := uint32(BasicBoxLen) + b.Mvhd.BoxSize()
	for _, t := range b.Traks {
		size += t.BoxSize()
	}
	if b.Mvex != nil {
		size += b.Mvex.BoxSize()
	}
	if b.Meta != nil {
		size += b.Meta.BoxSize()
	}
	if b.Udta != nil {
		size += b.Udta.BoxSize()
	}
	for _, u := range b.Unknown {
		size += u.BoxSize()
	}
	return size
}

func (b *MovieBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), TypeMOOV)
	buf = marshalChild(buf, b.Mvhd)
	for _, t := range b.Traks {
		buf = marshalChild(buf, t)
	}
	if b.Mvex != nil {
		buf = marshalChild(buf, b.Mvex)
	}
	if b.Meta != nil {
		buf = marshalChild(buf, b.Meta)
	}
	if b.Udta != nil {
		buf = marshalChild(buf, b.Udta)
	}
	for _, u := range b.Unknown {
		buf = marshalChild(buf, u)
	}
	return buf
}

func decodeMoov(data []byte) (*MovieBox, int, error) {
	size, err := checkHeader(data, TypeMOOV, BasicBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &MovieBox{}
	err = scanChildren(data, size, TypeMOOV, func(t [4]byte, sub []byte) error {
		switch t {
		case TypeMVHD:
			if b.Mvhd != nil {
				return dupErr(TypeMOOV, t)
			}
			child, _, err := decodeMvhd(sub)
			if err != nil {
				return err
			}
			b.Mvhd = child
		case TypeTRAK:
			child, _, err := decodeTrak(sub)
			if err != nil {
				return err
			}
			b.Traks = append(b.Traks, child)
		case TypeMVEX:
			if b.Mvex != nil {
				return dupErr(TypeMOOV, t)
			}
			child, _, err := decodeMvex(sub)
			if err != nil {
				return err
			}
			b.Mvex = child
		case TypeMETA:
			if b.Meta != nil {
				return dupErr(TypeMOOV, t)
			}
			child, _, err := decodeMeta(sub)
			if err != nil {
				return err
			}
			b.Meta = child
		case TypeUDTA:
			if b.Udta != nil {
				return dupErr(TypeMOOV, t)
			}
			child, _, err := decodeUdta(sub)
			if err != nil {
				return err
			}
			b.Udta = child
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
	if b.Mvhd == nil {
		return nil, 0, missErr(TypeMOOV, TypeMVHD)
	}
	if len(b.Traks) == 0 {
		return nil, 0, missErr(TypeMOOV, TypeTRAK)
	}
	return b, size, nil
}

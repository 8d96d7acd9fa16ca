package box

// aligned(8) class MovieExtendsBox extends Box('mvex') {
// }
//
// At least one trex, one per track.
type MovieExtendsBox struct {
	Mehd    *MovieExtendsHeaderBox
	Trexs   []*TrackExtendsBox
	Unknown []*UnknownBox
}

func (b *MovieExtendsBox) BoxType() [4]byte { return TypeMVEX }

func (b *MovieExtendsBox) BoxSize() uint32 {
	size := uint32(BasicBoxLen)
	if b.Mehd != nil {
		size += b.Mehd.BoxSize()
	}
	for _, t := range b.Trexs {
		size += t.BoxSize()
	}
	for _, u := range b.Unknown {
		size += u.BoxSize()
	}
	return size
}

func (b *MovieExtendsBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), TypeMVEX)
	if b.Mehd != nil {
		buf = marshalChild(buf, b.Mehd)
	}
	for _, t := range b.Trexs {
		buf = marshalChild(buf, t)
	}
	for _, u := range b.Unknown {
		buf = marshalChild(buf, u)
	}
	return buf
}

func decodeMvex(data []byte) (*MovieExtendsBox, int, error) {
	size, err := checkHeader(data, TypeMVEX, BasicBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &MovieExtendsBox{}
	err = scanChildren(data, size, TypeMVEX, func(t [4]byte, sub []byte) error {
		switch t {
		case TypeMEHD:
			if b.Mehd != nil {
				return dupErr(TypeMVEX, t)
			}
			child, _, err := decodeMehd(sub)
			if err != nil {
				return err
			}
			b.Mehd = child
		case TypeTREX:
			child, _, err := decodeTrex(sub)
			if err != nil {
				return err
			}
			b.Trexs = append(b.Trexs, child)
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
	if len(b.Trexs) == 0 {
		return nil, 0, missErr(TypeMVEX, TypeTREX)
	}
	return b, size, nil
}

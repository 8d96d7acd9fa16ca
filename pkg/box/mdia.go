package box

// aligned(8) class MediaBox extends Box('mdia') {
// }
//
// mdhd, hdlr and minf are all required.
type MediaBox struct {
	Mdhd    *MediaHeaderBox
	Hdlr    *HandlerBox
	Minf    *MediaInformationBox
	Unknown []*UnknownBox
}

func (b *MediaBox) BoxType() [4]byte { return TypeMDIA }

func (b *MediaBox) BoxSize() uint32 {
	size := uint32(BasicBoxLen) + b.Mdhd.BoxSize() + b.Hdlr.BoxSize() + b.Minf.BoxSize()
	for _, u := range b.Unknown {
		size += u.BoxSize()
	}
	return size
}

func (b *MediaBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), TypeMDIA)
	buf = marshalChild(buf, b.Mdhd)
	buf = marshalChild(buf, b.Hdlr)
	buf = marshalChild(buf, b.Minf)
	for _, u := range b.Unknown {
		buf = marshalChild(buf, u)
	}
	return buf
}

func decodeMdia(data []byte) (*MediaBox, int, error) {
	size, err := checkHeader(data, TypeMDIA, BasicBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &MediaBox{}
	err = scanChildren(data, size, TypeMDIA, func(t [4]byte, sub []byte) error {
		switch t {
		case TypeMDHD:
			if b.Mdhd != nil {
				return dupErr(TypeMDIA, t)
			}
			child, _, err := decodeMdhd(sub)
			if err != nil {
				return err
			}
			b.Mdhd = child
		case TypeHDLR:
			if b.Hdlr != nil {
				return dupErr(TypeMDIA, t)
			}
			child, _, err := decodeHdlr(sub)
			if err != nil {
				return err
			}
			b.Hdlr = child
		case TypeMINF:
			if b.Minf != nil {
				return dupErr(TypeMDIA, t)
			}
			child, _, err := decodeMinf(sub)
			if err != nil {
				return err
			}
			b.Minf = child
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
	if b.Mdhd == nil {
		return nil, 0, missErr(TypeMDIA, TypeMDHD)
	}
	if b.Hdlr == nil {
		return nil, 0, missErr(TypeMDIA, TypeHDLR)
	}
	if b.Minf == nil {
		return nil, 0, missErr(TypeMDIA, TypeMINF)
	}
	return b, size, nil
}

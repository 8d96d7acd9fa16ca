package box

// aligned(8) class MovieFragmentBox extends Box('moof') {
// }
type MovieFragmentBox struct {
	Mfhd    *MovieFragmentHeaderBox
	Trafs   []*TrackFragmentBox
	Unknown []*UnknownBox
}

func (b *MovieFragmentBox) BoxType() [4]byte { return TypeMOOF }

func (b *MovieFragmentBox) BoxSize() uint32 {
	size := uint32(BasicBoxLen) + b.Mfhd.BoxSize()
	for _, t := range b.Trafs {
		size += t.BoxSize()
	}
	for _, u := range b.Unknown {
		size += u.BoxSize()
	}
	return size
}

func (b *MovieFragmentBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), TypeMOOF)
	buf = marshalChild(buf, b.Mfhd)
	for _, t := range b.Trafs {
		buf = marshalChild(buf, t)
	}
	for _, u := range b.Unknown {
		buf = marshalChild(buf, u)
	}
	return buf
}

func decodeMoof(data []byte) (*MovieFragmentBox, int, error) {
	size, err := checkHeader(data, TypeMOOF, BasicBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &MovieFragmentBox{}
	err = scanChildren(data, size, TypeMOOF, func(t [4]byte, sub []byte) error {
		switch t {
		case TypeMFHD:
			if b.Mfhd != nil {
				return dupErr(TypeMOOF, t)
			}
			child, _, err := decodeMfhd(sub)
			if err != nil {
				return err
			}
			b.Mfhd = child
		case TypeTRAF:
			child, _, err := decodeTraf(sub)
			if err != nil {
				return err
			}
			b.Trafs = append(b.Trafs, child)
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
	if b.Mfhd == nil {
		return nil, 0, missErr(TypeMOOF, TypeMFHD)
	}
	if len(b.Trafs) == 0 {
		return nil, 0, missErr(TypeMOOF, TypeTRAF)
	}
	return b, size, nil
}

package box

// aligned(8) class EditBox extends Box('edts') {
// }
type EditBox struct {
	Elst    *EditListBox
	Unknown []*UnknownBox
}

func (b *EditBox) BoxType() [4]byte { return TypeEDTS }

func (b *EditBox) BoxSize() uint32 {
	size := uint32(BasicBoxLen)
	if b.Elst != nil {
		size += b.Elst.BoxSize()
	}
	for _, u := range b.Unknown {
		size += u.BoxSize()
	}
	return size
}

func (b *EditBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), TypeEDTS)
	if b.Elst != nil {
		buf = marshalChild(buf, b.Elst)
	}
	for _, u := range b.Unknown {
		buf = marshalChild(buf, u)
	}
	return buf
}

func decodeEdts(data []byte) (*EditBox, int, error) {
	size, err := checkHeader(data, TypeEDTS, BasicBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &EditBox{}
	err = scanChildren(data, size, TypeEDTS, func(t [4]byte, sub []byte) error {
		switch t {
		case TypeELST:
			if b.Elst != nil {
				return dupErr(TypeEDTS, t)
			}
			child, _, err := decodeElst(sub)
			if err != nil {
				return err
			}
			b.Elst = child
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
	return b, size, nil
}

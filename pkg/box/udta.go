package box

// aligned(8) class UserDataBox extends Box('udta') {
// }
type UserDataBox struct {
	Meta    *MetaBox
	Unknown []*UnknownBox
}

func (b *UserDataBox) BoxType() [4]byte { return TypeUDTA }

func (b *UserDataBox) BoxSize() uint32 {
	size := uint32(BasicBoxLen)
	if b.Meta != nil {
		size += b.Meta.BoxSize()
	}
	for _, u := range b.Unknown {
		size += u.BoxSize()
	}
	return size
}

func (b *UserDataBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), TypeUDTA)
	if b.Meta != nil {
		buf = marshalChild(buf, b.Meta)
	}
	for _, u := range b.Unknown {
		buf = marshalChild(buf, u)
	}
	return buf
}

func decodeUdta(data []byte) (*UserDataBox, int, error) {
	size, err := checkHeader(data, TypeUDTA, BasicBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &UserDataBox{}
	err = scanChildren(data, size, TypeUDTA, func(t [4]byte, sub []byte) error {
		switch t {
		case TypeMETA:
			if b.Meta != nil {
				return dupErr(TypeUDTA, t)
			}
			child, _, err := decodeMeta(sub)
			if err != nil {
				return err
			}
			b.Meta = child
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

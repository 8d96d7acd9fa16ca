package box

// aligned(8) class MetaBox (handler_type) extends FullBox('meta', version = 0, 0) {
//		HandlerBox(handler_type) theHandler;
// }
//
// The only full-box container in the tree: children start after the
// version and flags word.
type MetaBox struct {
	Version uint8
	Flags   uint32
	Hdlr    *HandlerBox
	Unknown []*UnknownBox
}

func (b *MetaBox) BoxType() [4]byte { return TypeMETA }

func (b *MetaBox) BoxSize() uint32 {
	size := uint32(FullBoxLen)
	if b.Hdlr != nil {
		size += b.Hdlr.BoxSize()
	}
	for _, u := range b.Unknown {
		size += u.BoxSize()
	}
	return size
}

func (b *MetaBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeMETA, b.Version, b.Flags)
	if b.Hdlr != nil {
		buf = marshalChild(buf, b.Hdlr)
	}
	for _, u := range b.Unknown {
		buf = marshalChild(buf, u)
	}
	return buf
}

func decodeMeta(data []byte) (*MetaBox, int, error) {
	size, err := checkHeader(data, TypeMETA, FullBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &MetaBox{}
	b.Version, b.Flags = readFullPrefix(data)
	err = scanChildrenFrom(data, FullBoxLen, size, TypeMETA, func(t [4]byte, sub []byte) error {
		switch t {
		case TypeHDLR:
			if b.Hdlr != nil {
				return dupErr(TypeMETA, t)
			}
			child, _, err := decodeHdlr(sub)
			if err != nil {
				return err
			}
			b.Hdlr = child
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
	if b.Hdlr == nil {
		return nil, 0, missErr(TypeMETA, TypeHDLR)
	}
	return b, size, nil
}

package box

// aligned(8) class DataInformationBox extends Box('dinf') { }
//
// Container for exactly one dref.
type DataInformationBox struct {
	Dref    *DataReferenceBox
	Unknown []*UnknownBox
}

func NewDataInformationBox() *DataInformationBox {
	return &DataInformationBox{Dref: NewDataReferenceBox()}
}

func (b *DataInformationBox) BoxType() [4]byte { return TypeDINF }

func (b *DataInformationBox) BoxSize() uint32 {
	size := uint32(BasicBoxLen) + b.Dref.BoxSize()
	for _, u := range b.Unknown {
		size += u.BoxSize()
	}
	return size
}

func (b *DataInformationBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), TypeDINF)
	buf = marshalChild(buf, b.Dref)
	for _, u := range b.Unknown {
		buf = marshalChild(buf, u)
	}
	return buf
}

func decodeDinf(data []byte) (*DataInformationBox, int, error) {
	size, err := checkHeader(data, TypeDINF, BasicBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &DataInformationBox{}
	err = scanChildren(data, size, TypeDINF, func(t [4]byte, sub []byte) error {
		switch t {
		case TypeDREF:
			if b.Dref != nil {
				return dupErr(TypeDINF, t)
			}
			child, _, err := decodeDref(sub)
			if err != nil {
				return err
			}
			b.Dref = child
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
	if b.Dref == nil {
		return nil, 0, missErr(TypeDINF, TypeDREF)
	}
	return b, size, nil
}

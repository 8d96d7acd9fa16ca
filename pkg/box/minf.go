package box

// aligned(8) class MediaInformationBox extends Box('minf') {
// }
//
// Exactly one of vmhd or smhd heads the box depending on the handler;
// dinf and stbl are required.
type MediaInformationBox struct {
	Vmhd    *VideoMediaHeaderBox
	Smhd    *SoundMediaHeaderBox
	Dinf    *DataInformationBox
	Stbl    *SampleTableBox
	Unknown []*UnknownBox
}

func (b *MediaInformationBox) BoxType() [4]byte { return TypeMINF }

func (b *MediaInformationBox) BoxSize() uint32 {
	size := uint32(BasicBoxLen)
	if b.Vmhd != nil {
		size += b.Vmhd.BoxSize()
	}
	if b.Smhd != nil {
		size += b.Smhd.BoxSize()
	}
	size += b.Dinf.BoxSize() + b.Stbl.BoxSize()
	for _, u := range b.Unknown {
		size += u.BoxSize()
	}
	return size
}

func (b *MediaInformationBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), TypeMINF)
	if b.Vmhd != nil {
		buf = marshalChild(buf, b.Vmhd)
	}
	if b.Smhd != nil {
		buf = marshalChild(buf, b.Smhd)
	}
	buf = marshalChild(buf, b.Dinf)
	buf = marshalChild(buf, b.Stbl)
	for _, u := range b.Unknown {
		buf = marshalChild(buf, u)
	}
	return buf
}

func decodeMinf(data []byte) (*MediaInformationBox, int, error) {
	size, err := checkHeader(data, TypeMINF, BasicBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &MediaInformationBox{}
	err = scanChildren(data, size, TypeMINF, func(t [4]byte, sub []byte) error {
		switch t {
		case TypeVMHD:
			if b.Vmhd != nil {
				return dupErr(TypeMINF, t)
			}
			child, _, err := decodeVmhd(sub)
			if err != nil {
				return err
			}
			b.Vmhd = child
		case TypeSMHD:
			if b.Smhd != nil {
				return dupErr(TypeMINF, t)
			}
			child, _, err := decodeSmhd(sub)
			if err != nil {
				return err
			}
			b.Smhd = child
		case TypeDINF:
			if b.Dinf != nil {
				return dupErr(TypeMINF, t)
			}
			child, _, err := decodeDinf(sub)
			if err != nil {
				return err
			}
			b.Dinf = child
		case TypeSTBL:
			if b.Stbl != nil {
				return dupErr(TypeMINF, t)
			}
			child, _, err := decodeStbl(sub)
			if err != nil {
				return err
			}
			b.Stbl = child
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
	if b.Dinf == nil {
		return nil, 0, missErr(TypeMINF, TypeDINF)
	}
	if b.Stbl == nil {
		return nil, 0, missErr(TypeMINF, TypeSTBL)
	}
	return b, size, nil
}

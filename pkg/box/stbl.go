package box

// aligned(8) class SampleTableBox extends Box('stbl') {
// }
//
// stsd, stts, stsc and stsz are required; for a fragmented stream they
// hold zero entries and the real timing lives in each moof.
type SampleTableBox struct {
	Stsd    *SampleDescriptionBox
	Stts    *TimeToSampleBox
	Ctts    *CompositionOffsetBox
	Stss    *SyncSampleBox
	Stsc    *SampleToChunkBox
	Stsz    *SampleSizeBox
	Stco    *ChunkOffsetBox
	Co64    *ChunkLargeOffsetBox
	Unknown []*UnknownBox
}

func (b *SampleTableBox) BoxType() [4]byte { return TypeSTBL }

func (b *SampleTableBox) BoxSize() uint32 {
	size := uint32(BasicBoxLen) + b.Stsd.BoxSize() + b.Stts.BoxSize()
	if b.Ctts != nil {
		size += b.Ctts.BoxSize()
	}
	if b.Stss != nil {
		size += b.Stss.BoxSize()
	}
	size += b.Stsc.BoxSize() + b.Stsz.BoxSize()
	if b.Stco != nil {
		size += b.Stco.BoxSize()
	}
	if b.Co64 != nil {
		size += b.Co64.BoxSize()
	}
	for _, u := range b.Unknown {
		size += u.BoxSize()
	}
	return size
}

func (b *SampleTableBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), TypeSTBL)
	buf = marshalChild(buf, b.Stsd)
	buf = marshalChild(buf, b.Stts)
	if b.Ctts != nil {
		buf = marshalChild(buf, b.Ctts)
	}
	if b.Stss != nil {
		buf = marshalChild(buf, b.Stss)
	}
	buf = marshalChild(buf, b.Stsc)
	buf = marshalChild(buf, b.Stsz)
	if b.Stco != nil {
		buf = marshalChild(buf, b.Stco)
	}
	if b.Co64 != nil {
		buf = marshalChild(buf, b.Co64)
	}
	for _, u := range b.Unknown {
		buf = marshalChild(buf, u)
	}
	return buf
}

func decodeStbl(data []byte) (*SampleTableBox, int, error) {
	size, err := checkHeader(data, TypeSTBL, BasicBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &SampleTableBox{}
	err = scanChildren(data, size, TypeSTBL, func(t [4]byte, sub []byte) error {
		switch t {
		case TypeSTSD:
			if b.Stsd != nil {
				return dupErr(TypeSTBL, t)
			}
			child, _, err := decodeStsd(sub)
			if err != nil {
				return err
			}
			b.Stsd = child
		case TypeSTTS:
			if b.Stts != nil {
				return dupErr(TypeSTBL, t)
			}
			child, _, err := decodeStts(sub)
			if err != nil {
				return err
			}
			b.Stts = child
		case TypeCTTS:
			if b.Ctts != nil {
				return dupErr(TypeSTBL, t)
			}
			child, _, err := decodeCtts(sub)
			if err != nil {
				return err
			}
			b.Ctts = child
		case TypeSTSS:
			if b.Stss != nil {
				return dupErr(TypeSTBL, t)
			}
			child, _, err := decodeStss(sub)
			if err != nil {
				return err
			}
			b.Stss = child
		case TypeSTSC:
			if b.Stsc != nil {
				return dupErr(TypeSTBL, t)
			}
			child, _, err := decodeStsc(sub)
			if err != nil {
				return err
			}
			b.Stsc = child
		case TypeSTSZ:
			if b.Stsz != nil {
				return dupErr(TypeSTBL, t)
			}
			child, _, err := decodeStsz(sub)
			if err != nil {
				return err
			}
			b.Stsz = child
		case TypeSTCO:
			if b.Stco != nil {
				return dupErr(TypeSTBL, t)
			}
			child, _, err := decodeStco(sub)
			if err != nil {
				return err
			}
			b.Stco = child
		case TypeCO64:
			if b.Co64 != nil {
				return dupErr(TypeSTBL, t)
			}
			child, _, err := decodeCo64(sub)
			if err != nil {
				return err
			}
			b.Co64 = child
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
	if b.Stsd == nil {
		return nil, 0, missErr(TypeSTBL, TypeSTSD)
	}
	if b.Stts == nil {
		return nil, 0, missErr(TypeSTBL, TypeSTTS)
	}
	if b.Stsc == nil {
		return nil, 0, missErr(TypeSTBL, TypeSTSC)
	}
	if b.Stsz == nil {
		return nil, 0, missErr(TypeSTBL, TypeSTSZ)
	}
	return b, size, nil
}

package box

// aligned(8) class MediaDataBox extends Box('mdat') {
//		bit(8) data[];
// }
type MediaDataBox struct {
	Data []byte
}

func (b *MediaDataBox) BoxType() [4]byte { return TypeMDAT }

func (b *MediaDataBox) BoxSize() uint32 {
	return uint32(BasicBoxLen + len(b.Data))
}

func (b *MediaDataBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), TypeMDAT)
	return append(buf, b.Data...)
}

func decodeMdat(data []byte) (*MediaDataBox, int, error) {
	size, err := checkHeader(data, TypeMDAT, BasicBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &MediaDataBox{Data: append([]byte(nil), data[BasicBoxLen:size]...)}
	return b, size, nil
}

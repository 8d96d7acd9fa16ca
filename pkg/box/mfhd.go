package box

// aligned(8) class MovieFragmentHeaderBox extends FullBox('mfhd', 0, 0) {
//		unsigned int(32) sequence_number;
// }
type MovieFragmentHeaderBox struct {
	Version        uint8
	Flags          uint32
	SequenceNumber uint32
}

const mfhdBoxLen = FullBoxLen + 4

func NewMovieFragmentHeaderBox(sequenceNumber uint32) *MovieFragmentHeaderBox {
	return &MovieFragmentHeaderBox{SequenceNumber: sequenceNumber}
}

func (b *MovieFragmentHeaderBox) BoxType() [4]byte { return TypeMFHD }

func (b *MovieFragmentHeaderBox) BoxSize() uint32 { return mfhdBoxLen }

func (b *MovieFragmentHeaderBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, mfhdBoxLen, TypeMFHD, b.Version, b.Flags)
	buf = appendUint32(buf, b.SequenceNumber)
	return buf
}

func decodeMfhd(data []byte) (*MovieFragmentHeaderBox, int, error) {
	size, err := checkHeader(data, TypeMFHD, mfhdBoxLen)
	if err != nil {
		return nil, 0, err
	}
	b := &MovieFragmentHeaderBox{}
	b.Version, b.Flags = readFullPrefix(data)
	b.SequenceNumber = readU32(data, 12)
	return b, size, nil
}

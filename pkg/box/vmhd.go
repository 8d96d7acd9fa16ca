package box

import "fmt"

// aligned(8) class VideoMediaHeaderBox extends FullBox('vmhd', version = 0, 1) {
//		template unsigned int(16) graphicsmode = 0;
//		template unsigned int(16)[3] opcolor = {0, 0, 0};
// }
type VideoMediaHeaderBox struct {
	Version      uint8
	Flags        uint32
	Graphicsmode uint16
	Opcolor      [3]uint16
}

const vmhdBoxLen = FullBoxLen + 8

func NewVideoMediaHeaderBox() *VideoMediaHeaderBox {
	return &VideoMediaHeaderBox{Flags: 0x000001}
}

func (b *VideoMediaHeaderBox) BoxType() [4]byte { return TypeVMHD }

func (b *VideoMediaHeaderBox) BoxSize() uint32 { return vmhdBoxLen }

func (b *VideoMediaHeaderBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, vmhdBoxLen, TypeVMHD, b.Version, b.Flags)
	buf = appendUint16(buf, b.Graphicsmode)
	for _, c := range b.Opcolor {
		buf = appendUint16(buf, c)
	}
	return buf
}

func decodeVmhd(data []byte) (*VideoMediaHeaderBox, int, error) {
	size, err := checkHeader(data, TypeVMHD, vmhdBoxLen)
	if err != nil {
		return nil, 0, err
	}
	if size < vmhdBoxLen {
		return nil, 0, fmt.Errorf("vmhd: declared %d: %w", size, ErrSizeMismatch)
	}
	b := &VideoMediaHeaderBox{Graphicsmode: readU16(data, 12)}
	b.Version, b.Flags = readFullPrefix(data)
	for i := range b.Opcolor {
		b.Opcolor[i] = readU16(data, 14+2*i)
	}
	return b, size, nil
}

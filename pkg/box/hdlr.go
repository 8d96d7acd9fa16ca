package box

import "bytes"

// aligned(8) class HandlerBox extends FullBox('hdlr', version = 0, 0) {
//		unsigned int(32) pre_defined = 0;
//		unsigned int(32) handler_type;
//		const unsigned int(32)[3] reserved = 0;
//		string name;
// }
type HandlerBox struct {
	Version      uint8
	Flags        uint32
	Handler_type [4]byte
	Name         string
}

const hdlrBoxMinLen = FullBoxLen + 4 + 4 + 12

func NewHandlerBox() *HandlerBox {
	return &HandlerBox{
		Handler_type: f("vide"),
		Name:         "PointCloudHandler",
	}
}

func (b *HandlerBox) BoxType() [4]byte { return TypeHDLR }

func (b *HandlerBox) BoxSize() uint32 {
	return uint32(hdlrBoxMinLen + len(b.Name) + 1)
}

func (b *HandlerBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeHDLR, b.Version, b.Flags)
	buf = appendZero(buf, 4)
	buf = append(buf, b.Handler_type[:]...)
	buf = appendZero(buf, 12)
	buf = append(buf, b.Name...)
	return append(buf, 0)
}

func decodeHdlr(data []byte) (*HandlerBox, int, error) {
	size, err := checkHeader(data, TypeHDLR, hdlrBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &HandlerBox{Handler_type: [4]byte(data[16:20])}
	b.Version, b.Flags = readFullPrefix(data)
	name := data[hdlrBoxMinLen:size]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	b.Name = string(name)
	return b, size, nil
}

package box

// aligned(8) class FileTypeBox extends Box('ftyp') {
//		unsigned int(32) major_brand;
//		unsigned int(32) minor_version;
//		unsigned int(32) compatible_brands[];
// }
//
// The same layout serves the segment type box 'styp' that fronts each
// media segment; Type selects which tag is written.
type FileTypeBox struct {
	Type              [4]byte
	Major_brand       [4]byte
	Minor_version     uint32
	Compatible_brands [][4]byte
}

const fileTypeBoxMinLen = BasicBoxLen + 8

// NewFileTypeBox returns the ftyp an init segment starts with.
func NewFileTypeBox() *FileTypeBox {
	return &FileTypeBox{
		Type:              TypeFTYP,
		Major_brand:       f("isom"),
		Compatible_brands: [][4]byte{f("isom"), f("iso6"), f("dash")},
	}
}

// NewSegmentTypeBox returns the styp a media segment starts with.
func NewSegmentTypeBox() *FileTypeBox {
	return &FileTypeBox{
		Type:              TypeSTYP,
		Major_brand:       f("isom"),
		Compatible_brands: [][4]byte{f("isom"), f("iso6"), f("dash"), f("cmfc")},
	}
}

func (b *FileTypeBox) BoxType() [4]byte { return b.Type }

func (b *FileTypeBox) BoxSize() uint32 {
	return uint32(fileTypeBoxMinLen + 4*len(b.Compatible_brands))
}

func (b *FileTypeBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), b.Type)
	buf = append(buf, b.Major_brand[:]...)
	buf = appendUint32(buf, b.Minor_version)
	for _, brand := range b.Compatible_brands {
		buf = append(buf, brand[:]...)
	}
	return buf
}

func decodeFileType(data []byte, t [4]byte) (*FileTypeBox, int, error) {
	size, err := checkHeader(data, t, fileTypeBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &FileTypeBox{
		Type:          t,
		Major_brand:   [4]byte(data[8:12]),
		Minor_version: readU32(data, 12),
	}
	for offset := 16; offset+4 <= size; offset += 4 {
		b.Compatible_brands = append(b.Compatible_brands, [4]byte(data[offset:offset+4]))
	}
	return b, size, nil
}

func decodeFtyp(data []byte) (*FileTypeBox, int, error) {
	return decodeFileType(data, TypeFTYP)
}

func decodeStyp(data []byte) (*FileTypeBox, int, error) {
	return decodeFileType(data, TypeSTYP)
}

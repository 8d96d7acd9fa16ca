package box

import "fmt"

// aligned(8) class SampleDescriptionBox extends FullBox('stsd', version = 0, 0) {
//		unsigned int(32) entry_count;
//		for (i = 1; i <= entry_count; i++) {
//			SampleEntry();
//		}
// }
type SampleDescriptionBox struct {
	Version uint8
	Flags   uint32
	Entries []*VisualSampleEntry
}

// VisualSampleEntry carries the codec identity of the point-cloud track.
// The fixed 86-byte visual layout is followed by an optional codec
// configuration sub-box written under the 'pccc' tag; 'avcC' and 'esds'
// payloads are accepted on read for foreign files.
//
// class VisualSampleEntry(codingname) extends SampleEntry(codingname) {
//		unsigned int(16) pre_defined = 0;
//		const unsigned int(16) reserved = 0;
//		unsigned int(32)[3] pre_defined = 0;
//		unsigned int(16) width;
//		unsigned int(16) height;
//		template unsigned int(32) horizresolution = 0x00480000;
//		template unsigned int(32) vertresolution = 0x00480000;
//		const unsigned int(32) reserved = 0;
//		template unsigned int(16) frame_count = 1;
//		string[32] compressorname;
//		template unsigned int(16) depth = 0x0018;
//		int(16) pre_defined = -1;
// }
type VisualSampleEntry struct {
	Data_format     [4]byte
	Width           uint16
	Height          uint16
	Compressor_name string
	Config          []byte
}

const (
	stsdBoxMinLen        = FullBoxLen + 4
	visualSampleEntryLen = 86
)

func NewVisualSampleEntry() *VisualSampleEntry {
	return &VisualSampleEntry{
		Data_format:     f("pcvc"),
		Width:           640,
		Height:          480,
		Compressor_name: "PointCloudCodec",
	}
}

func (e *VisualSampleEntry) size() uint32 {
	size := uint32(visualSampleEntryLen)
	if e.Config != nil {
		size += uint32(BasicBoxLen + len(e.Config))
	}
	return size
}

func (e *VisualSampleEntry) marshal(buf []byte) []byte {
	buf = appendUint32(buf, e.size())
	buf = append(buf, e.Data_format[:]...)
	buf = appendZero(buf, 6)
	buf = appendUint16(buf, 1) // data_reference_index
	buf = appendZero(buf, 16)
	buf = appendUint16(buf, e.Width)
	buf = appendUint16(buf, e.Height)
	buf = appendUint32(buf, 0x00480000)
	buf = appendUint32(buf, 0x00480000)
	buf = appendZero(buf, 4)
	buf = appendUint16(buf, 1) // frame_count
	name := e.Compressor_name
	if len(name) > 31 {
		name = name[:31]
	}
	buf = append(buf, byte(len(name)))
	buf = append(buf, name...)
	buf = appendZero(buf, 31-len(name))
	buf = appendUint16(buf, 0x0018) // depth
	buf = appendUint16(buf, 0xffff) // pre_defined = -1
	if e.Config != nil {
		buf = appendHeader(buf, uint32(BasicBoxLen+len(e.Config)), TypePCCC)
		buf = append(buf, e.Config...)
	}
	return buf
}

func decodeVisualSampleEntry(data []byte) (*VisualSampleEntry, error) {
	entrySize := len(data)
	e := &VisualSampleEntry{
		Data_format: [4]byte(data[4:8]),
		Width:       readU16(data, 32),
		Height:      readU16(data, 34),
	}
	nameLen := int(data[50])
	if nameLen > 31 {
		nameLen = 31
	}
	e.Compressor_name = string(data[51 : 51+nameLen])
	for offset := visualSampleEntryLen; offset+BasicBoxLen <= entrySize; {
		subSize := int(readU32(data, offset))
		if subSize < BasicBoxLen || offset+subSize > entrySize {
			return nil, fmt.Errorf("stsd: config sub-box size %d: %w", subSize, ErrSizeMismatch)
		}
		switch [4]byte(data[offset+4 : offset+8]) {
		case TypePCCC, TypeAVCC, TypeESDS:
			e.Config = append([]byte(nil), data[offset+8:offset+subSize]...)
		}
		offset += subSize
	}
	return e, nil
}

func (b *SampleDescriptionBox) BoxType() [4]byte { return TypeSTSD }

func (b *SampleDescriptionBox) BoxSize() uint32 {
	size := uint32(stsdBoxMinLen)
	for _, e := range b.Entries {
		size += e.size()
	}
	return size
}

func (b *SampleDescriptionBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeSTSD, b.Version, b.Flags)
	buf = appendUint32(buf, uint32(len(b.Entries)))
	for _, e := range b.Entries {
		buf = e.marshal(buf)
	}
	return buf
}

func decodeStsd(data []byte) (*SampleDescriptionBox, int, error) {
	size, err := checkHeader(data, TypeSTSD, stsdBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &SampleDescriptionBox{}
	b.Version, b.Flags = readFullPrefix(data)
	count := int(readU32(data, 12))
	offset := stsdBoxMinLen
	for i := 0; i < count; i++ {
		if offset+4 > size {
			return nil, 0, fmt.Errorf("stsd: entry %d at %d: %w", i, offset, ErrSizeMismatch)
		}
		entrySize := int(readU32(data, offset))
		if entrySize < visualSampleEntryLen || offset+entrySize > size {
			return nil, 0, fmt.Errorf("stsd: entry %d size %d: %w", i, entrySize, ErrSizeMismatch)
		}
		e, err := decodeVisualSampleEntry(data[offset : offset+entrySize])
		if err != nil {
			return nil, 0, err
		}
		b.Entries = append(b.Entries, e)
		offset += entrySize
	}
	return b, size, nil
}

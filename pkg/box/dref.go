package box

import (
	"bytes"
	"fmt"
)

// aligned(8) class DataReferenceBox extends FullBox('dref', version = 0, 0) {
//		unsigned int(32) entry_count;
//		for (i=1; i <= entry_count; i++) {
//			DataEntryBox(entry_version, entry_flags) data_entry;
//		}
// }
//
// Only 'url ' entries are produced or accepted; streamed segments always
// reference media in the same file.
type DataReferenceBox struct {
	Version uint8
	Flags   uint32
	Entries []*DataEntryUrlBox
}

// aligned(8) class DataEntryUrlBox (bit(24) flags) extends FullBox('url ', version = 0, flags) {
//		string location;
// }
type DataEntryUrlBox struct {
	Version  uint8
	Flags    uint32
	Location string
}

const (
	drefBoxMinLen = FullBoxLen + 4
	urlBoxMinLen  = FullBoxLen
)

// DataEntrySelfContained marks the media as living in the same file as
// the metadata; no location string follows.
const DataEntrySelfContained uint32 = 0x000001

func NewDataReferenceBox() *DataReferenceBox {
	return &DataReferenceBox{
		Entries: []*DataEntryUrlBox{{Flags: DataEntrySelfContained}},
	}
}

func (b *DataEntryUrlBox) BoxType() [4]byte { return TypeURL }

func (b *DataEntryUrlBox) BoxSize() uint32 {
	if b.Location == "" {
		return urlBoxMinLen
	}
	return uint32(urlBoxMinLen + len(b.Location) + 1)
}

func (b *DataEntryUrlBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeURL, b.Version, b.Flags)
	if b.Location != "" {
		buf = append(buf, b.Location...)
		buf = append(buf, 0)
	}
	return buf
}

func (b *DataReferenceBox) BoxType() [4]byte { return TypeDREF }

func (b *DataReferenceBox) BoxSize() uint32 {
	size := uint32(drefBoxMinLen)
	for _, e := range b.Entries {
		size += e.BoxSize()
	}
	return size
}

func (b *DataReferenceBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeDREF, b.Version, b.Flags)
	buf = appendUint32(buf, uint32(len(b.Entries)))
	for _, e := range b.Entries {
		buf = marshalChild(buf, e)
	}
	return buf
}

func decodeDref(data []byte) (*DataReferenceBox, int, error) {
	size, err := checkHeader(data, TypeDREF, drefBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &DataReferenceBox{}
	b.Version, b.Flags = readFullPrefix(data)
	count := int(readU32(data, 12))
	offset := drefBoxMinLen
	for i := 0; i < count; i++ {
		if offset+urlBoxMinLen > size {
			return nil, 0, fmt.Errorf("dref: entry %d at %d: %w", i, offset, ErrSizeMismatch)
		}
		entrySize := int(readU32(data, offset))
		if entrySize < urlBoxMinLen || offset+entrySize > size {
			return nil, 0, fmt.Errorf("dref: entry %d size %d: %w", i, entrySize, ErrSizeMismatch)
		}
		if tag := [4]byte(data[offset+4 : offset+8]); tag != TypeURL {
			return nil, 0, fmt.Errorf("dref: entry %d tagged %s: %w", i, FourCC(tag), ErrWrongType)
		}
		e := &DataEntryUrlBox{Version: data[offset+8]}
		e.Flags = readU32(data, offset+8) & 0x00FFFFFF
		if entrySize > urlBoxMinLen {
			e.Location = string(bytes.TrimRight(data[offset+urlBoxMinLen:offset+entrySize], "\x00"))
		}
		b.Entries = append(b.Entries, e)
		offset += entrySize
	}
	return b, size, nil
}

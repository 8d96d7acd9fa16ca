package box

import "fmt"

// aligned(8) class ChunkOffsetBox extends FullBox('stco', version = 0, 0) {
//		unsigned int(32) entry_count;
//		for (i=1; i <= entry_count; i++) {
//			unsigned int(32) chunk_offset;
//		}
// }
type ChunkOffsetBox struct {
	Version uint8
	Flags   uint32
	Entries []uint32
}

const stcoBoxMinLen = FullBoxLen + 4

func (b *ChunkOffsetBox) BoxType() [4]byte { return TypeSTCO }

func (b *ChunkOffsetBox) BoxSize() uint32 {
	return uint32(stcoBoxMinLen + 4*len(b.Entries))
}

func (b *ChunkOffsetBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeSTCO, b.Version, b.Flags)
	buf = appendUint32(buf, uint32(len(b.Entries)))
	for _, off := range b.Entries {
		buf = appendUint32(buf, off)
	}
	return buf
}

func decodeStco(data []byte) (*ChunkOffsetBox, int, error) {
	size, err := checkHeader(data, TypeSTCO, stcoBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &ChunkOffsetBox{}
	b.Version, b.Flags = readFullPrefix(data)
	count := int(readU32(data, 12))
	if size < stcoBoxMinLen+4*count {
		return nil, 0, fmt.Errorf("stco: %d entries in %d bytes: %w", count, size, ErrSizeMismatch)
	}
	b.Entries = make([]uint32, count)
	for i := range b.Entries {
		b.Entries[i] = readU32(data, stcoBoxMinLen+4*i)
	}
	return b, size, nil
}

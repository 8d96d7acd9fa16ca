package box

import "fmt"

// aligned(8) class ChunkLargeOffsetBox extends FullBox('co64', version = 0, 0) {
//		unsigned int(32) entry_count;
//		for (i=1; i <= entry_count; i++) {
//			unsigned int(64) chunk_offset;
//		}
// }
type ChunkLargeOffsetBox struct {
	Version uint8
	Flags   uint32
	Entries []uint64
}

const co64BoxMinLen = FullBoxLen + 4

func (b *ChunkLargeOffsetBox) BoxType() [4]byte { return TypeCO64 }

func (b *ChunkLargeOffsetBox) BoxSize() uint32 {
	return uint32(co64BoxMinLen + 8*len(b.Entries))
}

func (b *ChunkLargeOffsetBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeCO64, b.Version, b.Flags)
	buf = appendUint32(buf, uint32(len(b.Entries)))
	for _, off := range b.Entries {
		buf = appendUint64(buf, off)
	}
	return buf
}

func decodeCo64(data []byte) (*ChunkLargeOffsetBox, int, error) {
	size, err := checkHeader(data, TypeCO64, co64BoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &ChunkLargeOffsetBox{}
	b.Version, b.Flags = readFullPrefix(data)
	count := int(readU32(data, 12))
	if size < co64BoxMinLen+8*count {
		return nil, 0, fmt.Errorf("co64: %d entries in %d bytes: %w", count, size, ErrSizeMismatch)
	}
	b.Entries = make([]uint64, count)
	for i := range b.Entries {
		b.Entries[i] = readU64(data, co64BoxMinLen+8*i)
	}
	return b, size, nil
}

package box

import "fmt"

// aligned(8) class SyncSampleBox extends FullBox('stss', version = 0, 0) {
//		unsigned int(32) entry_count;
//		for (i=0; i < entry_count; i++) {
//			unsigned int(32) sample_number;
//		}
// }
type SyncSampleBox struct {
	Version uint8
	Flags   uint32
	Entries []uint32
}

const stssBoxMinLen = FullBoxLen + 4

func (b *SyncSampleBox) BoxType() [4]byte { return TypeSTSS }

func (b *SyncSampleBox) BoxSize() uint32 {
	return uint32(stssBoxMinLen + 4*len(b.Entries))
}

func (b *SyncSampleBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, b.BoxSize(), TypeSTSS, b.Version, b.Flags)
	buf = appendUint32(buf, uint32(len(b.Entries)))
	for _, n := range b.Entries {
		buf = appendUint32(buf, n)
	}
	return buf
}

func decodeStss(data []byte) (*SyncSampleBox, int, error) {
	size, err := checkHeader(data, TypeSTSS, stssBoxMinLen)
	if err != nil {
		return nil, 0, err
	}
	b := &SyncSampleBox{}
	b.Version, b.Flags = readFullPrefix(data)
	count := int(readU32(data, 12))
	if size < stssBoxMinLen+4*count {
		return nil, 0, fmt.Errorf("stss: %d entries in %d bytes: %w", count, size, ErrSizeMismatch)
	}
	b.Entries = make([]uint32, count)
	for i := range b.Entries {
		b.Entries[i] = readU32(data, stssBoxMinLen+4*i)
	}
	return b, size, nil
}

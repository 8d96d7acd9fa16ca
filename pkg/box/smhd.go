package box

import "fmt"

// aligned(8) class SoundMediaHeaderBox extends FullBox('smhd', version = 0, 0) {
//		template int(16) balance = 0;
//		const unsigned int(16) reserved = 0;
// }
//
// Present only as a structural placeholder; point-cloud tracks are video
// handlers and carry vmhd instead.
type SoundMediaHeaderBox struct {
	Version uint8
	Flags   uint32
	Balance int16
}

const smhdBoxLen = FullBoxLen + 4

func (b *SoundMediaHeaderBox) BoxType() [4]byte { return TypeSMHD }

func (b *SoundMediaHeaderBox) BoxSize() uint32 { return smhdBoxLen }

func (b *SoundMediaHeaderBox) Marshal(buf []byte) []byte {
	buf = appendFullHeader(buf, smhdBoxLen, TypeSMHD, b.Version, b.Flags)
	buf = appendBE(buf, b.Balance, 2)
	return appendZero(buf, 2)
}

func decodeSmhd(data []byte) (*SoundMediaHeaderBox, int, error) {
	size, err := checkHeader(data, TypeSMHD, smhdBoxLen)
	if err != nil {
		return nil, 0, err
	}
	if size < smhdBoxLen {
		return nil, 0, fmt.Errorf("smhd: declared %d: %w", size, ErrSizeMismatch)
	}
	b := &SoundMediaHeaderBox{Balance: int16(readU16(data, 12))}
	b.Version, b.Flags = readFullPrefix(data)
	return b, size, nil
}

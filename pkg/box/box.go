// Package box encodes and decodes the fragmented-MP4 box subset used to
// carry point-cloud frames: a CMAF-style init segment (ftyp+moov) followed
// by single-frame media segments (styp+moof+mdat).
package box

import (
	"fmt"
)

func f(s string) [4]byte {
	return [4]byte{s[0], s[1], s[2], s[3]}
}

var (
	TypeFTYP = f("ftyp")
	TypeSTYP = f("styp")
	TypeMOOV = f("moov")
	TypeMVHD = f("mvhd")
	TypeTRAK = f("trak")
	TypeTKHD = f("tkhd")
	TypeEDTS = f("edts")
	TypeELST = f("elst")
	TypeMDIA = f("mdia")
	TypeMDHD = f("mdhd")
	TypeHDLR = f("hdlr")
	TypeMINF = f("minf")
	TypeVMHD = f("vmhd")
	TypeSMHD = f("smhd")
	TypeDINF = f("dinf")
	TypeDREF = f("dref")
	TypeURL  = f("url ")
	TypeSTBL = f("stbl")
	TypeSTSD = f("stsd")
	TypePCCC = f("pccc")
	TypeAVCC = f("avcC")
	TypeESDS = f("esds")
	TypeSTTS = f("stts")
	TypeCTTS = f("ctts")
	TypeSTSS = f("stss")
	TypeSTSC = f("stsc")
	TypeSTSZ = f("stsz")
	TypeSTCO = f("stco")
	TypeCO64 = f("co64")
	TypeMVEX = f("mvex")
	TypeMEHD = f("mehd")
	TypeTREX = f("trex")
	TypeMETA = f("meta")
	TypeUDTA = f("udta")
	TypeMOOF = f("moof")
	TypeMFHD = f("mfhd")
	TypeTRAF = f("traf")
	TypeTFHD = f("tfhd")
	TypeTFDT = f("tfdt")
	TypeTRUN = f("trun")
	TypeMDAT = f("mdat")
)

const (
	BasicBoxLen = 8  // size + type
	FullBoxLen  = 12 // size + type + version + 24-bit flags
)

// Box is one node of an ISO-BMFF box tree.
//
// aligned(8) class Box (unsigned int(32) boxtype) {
//		unsigned int(32) size;
//		unsigned int(32) type = boxtype;
// }
type Box interface {
	BoxType() [4]byte
	// BoxSize returns the total encoded length including the 8-byte header.
	BoxSize() uint32
	// Marshal appends the encoded box to buf and returns the extended slice.
	Marshal(buf []byte) []byte
}

// FourCC renders a type tag for error messages and dumps.
func FourCC(t [4]byte) string {
	return string(t[:])
}

var zero [36]byte

type integer interface {
	~int | ~int16 | ~int32 | ~int64 | ~uint | ~uint16 | ~uint32 | ~uint64
}

func putBE[T integer](b []byte, num T) {
	for i, n := 0, len(b); i < n; i++ {
		b[i] = byte(num >> ((n - i - 1) << 3))
	}
}

func readBE[T integer](b []byte) (num T) {
	for i, n := 0, len(b); i < n; i++ {
		num += T(b[i]) << ((n - i - 1) << 3)
	}
	return
}

func appendBE[T integer](buf []byte, v T, width int) []byte {
	l := len(buf)
	buf = append(buf, zero[:width]...)
	putBE(buf[l:], v)
	return buf
}

func appendUint16(buf []byte, v uint16) []byte { return appendBE(buf, v, 2) }
func appendUint32(buf []byte, v uint32) []byte { return appendBE(buf, v, 4) }
func appendUint64(buf []byte, v uint64) []byte { return appendBE(buf, v, 8) }

func appendZero(buf []byte, n int) []byte {
	return append(buf, zero[:n]...)
}

func readU16(data []byte, off int) uint16 { return readBE[uint16](data[off : off+2]) }
func readU32(data []byte, off int) uint32 { return readBE[uint32](data[off : off+4]) }
func readU64(data []byte, off int) uint64 { return readBE[uint64](data[off : off+8]) }

func appendHeader(buf []byte, size uint32, t [4]byte) []byte {
	buf = appendUint32(buf, size)
	return append(buf, t[:]...)
}

// appendFullHeader writes the basic header plus the full-box prefix. The
// top byte of the 32-bit word is the version, the low 24 bits the flags.
func appendFullHeader(buf []byte, size uint32, t [4]byte, version uint8, flags uint32) []byte {
	buf = appendHeader(buf, size, t)
	return appendUint32(buf, uint32(version)<<24|flags&0x00FFFFFF)
}

// readFullPrefix unpacks the version byte and 24-bit flags at offset 8.
func readFullPrefix(data []byte) (version uint8, flags uint32) {
	return data[8], readU32(data, 8) & 0x00FFFFFF
}

// checkHeader validates the prefix every decoder shares: the buffer must
// hold at least the fixed minimum for the kind, the declared total size
// must fit in the buffer, and the tag must match. Returns the declared
// total size, which is also the number of bytes the decoder consumes.
func checkHeader(data []byte, t [4]byte, min int) (int, error) {
	if len(data) < min {
		return 0, fmt.Errorf("%s: %d bytes: %w", FourCC(t), len(data), ErrTooSmall)
	}
	size := int(readU32(data, 0))
	if size < BasicBoxLen || size > len(data) {
		return 0, fmt.Errorf("%s: declared %d, have %d: %w", FourCC(t), size, len(data), ErrIncomplete)
	}
	if tag := [4]byte(data[4:8]); tag != t {
		return 0, fmt.Errorf("%s: tagged %s: %w", FourCC(t), FourCC(tag), ErrWrongType)
	}
	return size, nil
}

// scanChildren walks a container payload as a sequence of sub-boxes,
// validating each tentative header before handing the exact sub-slice to
// visit. size is the container's declared total.
func scanChildren(data []byte, size int, parent [4]byte, visit func(t [4]byte, sub []byte) error) error {
	return scanChildrenFrom(data, BasicBoxLen, size, parent, visit)
}

// scanChildrenFrom is scanChildren with the first child at start, for
// containers that carry their own prefix (meta's version and flags).
func scanChildrenFrom(data []byte, start, size int, parent [4]byte, visit func(t [4]byte, sub []byte) error) error {
	for offset := start; offset < size; {
		if offset+BasicBoxLen > size {
			return fmt.Errorf("%s: %d trailing bytes: %w", FourCC(parent), size-offset, ErrTooSmall)
		}
		subSize := int(readU32(data, offset))
		if subSize < BasicBoxLen || offset+subSize > size {
			return fmt.Errorf("%s: sub-box size %d at %d: %w", FourCC(parent), subSize, offset, ErrSizeMismatch)
		}
		if err := visit([4]byte(data[offset+4:offset+8]), data[offset:offset+subSize]); err != nil {
			return err
		}
		offset += subSize
	}
	return nil
}

// marshalChild appends one child box and asserts the buffer grew by
// exactly the child's BoxSize. A mismatch is an encoder bug, never an
// input error, so it aborts.
func marshalChild(buf []byte, b Box) []byte {
	before := len(buf)
	want := b.BoxSize()
	buf = b.Marshal(buf)
	if got := len(buf) - before; got != int(want) {
		panic(fmt.Sprintf("%s: wrote %d bytes, BoxSize() %d", FourCC(b.BoxType()), got, want))
	}
	return buf
}

func dupErr(parent, child [4]byte) error {
	return fmt.Errorf("%s: second %s: %w", FourCC(parent), FourCC(child), ErrDuplicateChild)
}

func missErr(parent, child [4]byte) error {
	return fmt.Errorf("%s: no %s: %w", FourCC(parent), FourCC(child), ErrMissingChild)
}

// UnknownBox carries a box kind this package does not interpret. Tag and
// payload are preserved verbatim so an unfamiliar tree survives a round
// trip unchanged.
type UnknownBox struct {
	Type [4]byte
	Data []byte
}

func (b *UnknownBox) BoxType() [4]byte { return b.Type }

func (b *UnknownBox) BoxSize() uint32 {
	return uint32(BasicBoxLen + len(b.Data))
}

func (b *UnknownBox) Marshal(buf []byte) []byte {
	buf = appendHeader(buf, b.BoxSize(), b.Type)
	return append(buf, b.Data...)
}

func decodeUnknown(data []byte) (*UnknownBox, int, error) {
	if len(data) < BasicBoxLen {
		return nil, 0, fmt.Errorf("unknown box: %d bytes: %w", len(data), ErrTooSmall)
	}
	size := int(readU32(data, 0))
	if size < BasicBoxLen || size > len(data) {
		return nil, 0, fmt.Errorf("%s: declared %d, have %d: %w", FourCC([4]byte(data[4:8])), size, len(data), ErrIncomplete)
	}
	b := &UnknownBox{
		Type: [4]byte(data[4:8]),
		Data: append([]byte(nil), data[8:size]...),
	}
	return b, size, nil
}

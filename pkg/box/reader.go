package box

import "fmt"

type decoder func(data []byte) (Box, int, error)

// dec adapts a concrete decode function to the dispatch table. The
// indirection keeps each box file returning its own type.
func dec[T Box](f func(data []byte) (T, int, error)) decoder {
	return func(data []byte) (Box, int, error) {
		b, n, err := f(data)
		if err != nil {
			return nil, 0, err
		}
		return b, n, nil
	}
}

var decoders = map[[4]byte]decoder{
	TypeFTYP: dec(decodeFtyp),
	TypeSTYP: dec(decodeStyp),
	TypeMOOV: dec(decodeMoov),
	TypeMVHD: dec(decodeMvhd),
	TypeTRAK: dec(decodeTrak),
	TypeTKHD: dec(decodeTkhd),
	TypeEDTS: dec(decodeEdts),
	TypeELST: dec(decodeElst),
	TypeUDTA: dec(decodeUdta),
	TypeMETA: dec(decodeMeta),
	TypeMDIA: dec(decodeMdia),
	TypeMDHD: dec(decodeMdhd),
	TypeHDLR: dec(decodeHdlr),
	TypeMINF: dec(decodeMinf),
	TypeVMHD: dec(decodeVmhd),
	TypeSMHD: dec(decodeSmhd),
	TypeDINF: dec(decodeDinf),
	TypeDREF: dec(decodeDref),
	TypeSTBL: dec(decodeStbl),
	TypeSTSD: dec(decodeStsd),
	TypeSTTS: dec(decodeStts),
	TypeCTTS: dec(decodeCtts),
	TypeSTSS: dec(decodeStss),
	TypeSTSC: dec(decodeStsc),
	TypeSTSZ: dec(decodeStsz),
	TypeSTCO: dec(decodeStco),
	TypeCO64: dec(decodeCo64),
	TypeMVEX: dec(decodeMvex),
	TypeMEHD: dec(decodeMehd),
	TypeTREX: dec(decodeTrex),
	TypeMOOF: dec(decodeMoof),
	TypeMFHD: dec(decodeMfhd),
	TypeTRAF: dec(decodeTraf),
	TypeTFHD: dec(decodeTfhd),
	TypeTFDT: dec(decodeTfdt),
	TypeTRUN: dec(decodeTrun),
	TypeMDAT: dec(decodeMdat),
}

// ReadBox decodes the single box at the head of data, returning it and
// the byte count it occupied. Kinds outside the dispatch table come
// back as *UnknownBox with their payload intact.
func ReadBox(data []byte) (Box, int, error) {
	if len(data) < BasicBoxLen {
		return nil, 0, fmt.Errorf("read box: %d bytes: %w", len(data), ErrTooSmall)
	}
	if d, ok := decoders[[4]byte(data[4:8])]; ok {
		return d(data)
	}
	return dec(decodeUnknown)(data)
}

// ParseMP4Boxes decodes a whole buffer as a sequence of top-level
// boxes. The first malformed box aborts the parse; there are no
// partial results.
func ParseMP4Boxes(data []byte) ([]Box, error) {
	var boxes []Box
	for offset := 0; offset < len(data); {
		if len(data)-offset < BasicBoxLen {
			return nil, fmt.Errorf("parse at %d: %d trailing bytes: %w", offset, len(data)-offset, ErrTooSmall)
		}
		b, n, err := ReadBox(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("parse at %d: %w", offset, err)
		}
		boxes = append(boxes, b)
		offset += n
	}
	return boxes, nil
}

// ExtractMdatBoxes walks the top-level boxes by header alone and
// collects every mdat payload, without decoding the structural boxes
// in between. Streams interleave moof+mdat pairs; this is the fast
// path for pulling the frames back out.
func ExtractMdatBoxes(data []byte) ([]*MediaDataBox, error) {
	var mdats []*MediaDataBox
	for offset := 0; offset < len(data); {
		if len(data)-offset < BasicBoxLen {
			return nil, fmt.Errorf("extract at %d: %d trailing bytes: %w", offset, len(data)-offset, ErrTooSmall)
		}
		size := int(readU32(data, offset))
		if size < BasicBoxLen || offset+size > len(data) {
			return nil, fmt.Errorf("extract at %d: declared %d, have %d: %w", offset, size, len(data)-offset, ErrIncomplete)
		}
		if [4]byte(data[offset+4:offset+8]) == TypeMDAT {
			b, _, err := decodeMdat(data[offset : offset+size])
			if err != nil {
				return nil, err
			}
			mdats = append(mdats, b)
		}
		offset += size
	}
	return mdats, nil
}

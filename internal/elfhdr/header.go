package elfhdr

import (
	"github.com/pkg/errors"
)

// Header is the decoded subset of an ELF file header
type Header struct {
	Ident Ident
	Type  uint16
	Entry uint64
}

// Decode parses buf as an ELF header.
//
// Decoding runs in two phases: the identification bytes are read first, and
// the byte order and word size they declare are then used to read e_type
// and e_entry.
func Decode(buf []byte) (*Header, error) {
	id, err := DecodeIdent(buf)
	if err != nil {
		return nil, err
	}
	if len(buf) < HeaderSize {
		return nil, errors.Wrapf(ErrShortHeader, "got %d bytes, need %d", len(buf), HeaderSize)
	}

	typ, entry := decodeTail(id, buf)
	return &Header{
		Ident: id,
		Type:  typ,
		Entry: entry,
	}, nil
}

// decodeTail reads e_type and e_entry from buf using the encoding declared
// in id. e_entry is 4 bytes wide for ELFCLASS32 and 8 bytes otherwise; both
// layouts place it at the same offset.
func decodeTail(id Ident, buf []byte) (typ uint16, entry uint64) {
	order := id.ByteOrder()

	typ = order.Uint16(buf[offType:])
	if id.Is32() {
		entry = uint64(order.Uint32(buf[offEntry:]))
	} else {
		entry = order.Uint64(buf[offEntry:])
	}
	return typ, entry
}

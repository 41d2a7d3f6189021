package elfhdr

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

const (
	// IdentSize is the length of e_ident
	IdentSize = elf.EI_NIDENT

	// HeaderSize is the size of an Elf64_Ehdr, the largest header variant.
	// At least this many bytes are required before the tail is decoded.
	HeaderSize = 64
)

// Byte offsets inside the header
const (
	offType  = 16
	offEntry = 24
)

var (
	// ErrNotELF is returned when the buffer does not start with the ELF magic
	ErrNotELF = errors.New("not an ELF file")

	// ErrShortHeader is returned when the magic is valid but fewer than
	// HeaderSize bytes are available
	ErrShortHeader = errors.New("short ELF header")
)

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// Ident holds the identification bytes (e_ident) of an ELF header
type Ident [IdentSize]byte

// CheckMagic validates the first four bytes of buf against 0x7f 'E' 'L' 'F'
func CheckMagic(buf []byte) error {
	if len(buf) < len(elfMagic) || !bytes.Equal(buf[:len(elfMagic)], elfMagic) {
		return ErrNotELF
	}
	return nil
}

// DecodeIdent validates the magic and copies the identification bytes out
// of buf. Bytes missing from a short buffer are left as zero.
func DecodeIdent(buf []byte) (Ident, error) {
	var id Ident
	if err := CheckMagic(buf); err != nil {
		return id, err
	}
	copy(id[:], buf)
	return id, nil
}

// Class returns the raw EI_CLASS byte
func (id Ident) Class() byte { return id[elf.EI_CLASS] }

// Data returns the raw EI_DATA byte
func (id Ident) Data() byte { return id[elf.EI_DATA] }

// Version returns the raw EI_VERSION byte
func (id Ident) Version() byte { return id[elf.EI_VERSION] }

// OSABI returns the raw EI_OSABI byte
func (id Ident) OSABI() byte { return id[elf.EI_OSABI] }

// ABIVersion returns the raw EI_ABIVERSION byte
func (id Ident) ABIVersion() byte { return id[elf.EI_ABIVERSION] }

// Is32 reports whether the header declares ELFCLASS32
func (id Ident) Is32() bool { return id.Class() == byte(elf.ELFCLASS32) }

// ByteOrder returns the byte order declared by EI_DATA. Anything other than
// ELFDATA2MSB is read as little endian.
func (id Ident) ByteOrder() binary.ByteOrder {
	if id.Data() == byte(elf.ELFDATA2MSB) {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Magic returns the identification bytes as space separated hex pairs
func (id Ident) Magic() string {
	var b bytes.Buffer
	for i, c := range id {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", c)
	}
	return b.String()
}

package elfhdr

import (
	"debug/elf"
	"fmt"
)

// Field is an enumerated header value: either a known label or the raw
// value it could not be matched against.
type Field struct {
	Raw   uint64
	Label string
	Known bool
}

func known(raw uint64, label string) Field {
	return Field{Raw: raw, Label: label, Known: true}
}

func unknown(raw uint64) Field {
	return Field{Raw: raw}
}

// String renders the label, or "<unknown: %x>" with the raw value
func (f Field) String() string {
	if f.Known {
		return f.Label
	}
	return fmt.Sprintf("<unknown: %x>", f.Raw)
}

var classLabels = map[byte]string{
	byte(elf.ELFCLASSNONE): "none",
	byte(elf.ELFCLASS32):   "ELF32",
	byte(elf.ELFCLASS64):   "ELF64",
}

var dataLabels = map[byte]string{
	byte(elf.ELFDATANONE): "none",
	byte(elf.ELFDATA2LSB): "2's complement, little endian",
	byte(elf.ELFDATA2MSB): "2's complement, big endian",
}

var osabiLabels = map[byte]string{
	byte(elf.ELFOSABI_NONE):       "UNIX - System V",
	byte(elf.ELFOSABI_HPUX):       "UNIX - HP-UX",
	byte(elf.ELFOSABI_NETBSD):     "UNIX - NetBSD",
	byte(elf.ELFOSABI_LINUX):      "UNIX - Linux",
	byte(elf.ELFOSABI_SOLARIS):    "UNIX - Solaris",
	byte(elf.ELFOSABI_IRIX):       "UNIX - IRIX",
	byte(elf.ELFOSABI_FREEBSD):    "UNIX - FreeBSD",
	byte(elf.ELFOSABI_TRU64):      "UNIX - TRU64",
	byte(elf.ELFOSABI_ARM):        "ARM",
	byte(elf.ELFOSABI_STANDALONE): "Standalone App",
}

var typeLabels = map[uint16]string{
	uint16(elf.ET_NONE): "NONE (None)",
	uint16(elf.ET_REL):  "REL (Relocatable file)",
	uint16(elf.ET_EXEC): "EXEC (Executable file)",
	uint16(elf.ET_DYN):  "DYN (Shared object file)",
	uint16(elf.ET_CORE): "CORE (Core file)",
}

func byteField(labels map[byte]string, v byte) Field {
	if label, ok := labels[v]; ok {
		return known(uint64(v), label)
	}
	return unknown(uint64(v))
}

// ClassField classifies EI_CLASS
func ClassField(id Ident) Field {
	return byteField(classLabels, id.Class())
}

// DataField classifies EI_DATA. With legacy set, an unrecognised encoding
// carries the EI_CLASS byte instead of its own.
func DataField(id Ident, legacy bool) Field {
	f := byteField(dataLabels, id.Data())
	if !f.Known && legacy {
		f.Raw = uint64(id.Class())
	}
	return f
}

// VersionField classifies EI_VERSION. Only EV_CURRENT is named; any other
// version is labelled with its bare decimal value.
func VersionField(id Ident) Field {
	v := id.Version()
	if v == byte(elf.EV_CURRENT) {
		return known(uint64(v), fmt.Sprintf("%d (current)", v))
	}
	return known(uint64(v), fmt.Sprintf("%d", v))
}

// OSABIField classifies EI_OSABI
func OSABIField(id Ident) Field {
	return byteField(osabiLabels, id.OSABI())
}

// TypeField classifies e_type
func TypeField(typ uint16) Field {
	if label, ok := typeLabels[typ]; ok {
		return known(uint64(typ), label)
	}
	return unknown(uint64(typ))
}

// FormatEntry renders e_entry as a hex literal, truncated to 32 bits for
// ELFCLASS32 headers
func FormatEntry(id Ident, entry uint64) string {
	if id.Is32() {
		return fmt.Sprintf("%#x", uint32(entry))
	}
	return fmt.Sprintf("%#x", entry)
}

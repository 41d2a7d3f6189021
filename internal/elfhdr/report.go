package elfhdr

import (
	"encoding/json"
	"fmt"
	"io"
)

// ReportOptions controls how a header is rendered
type ReportOptions struct {
	// LegacyDataFallback reports an unknown EI_DATA using the EI_CLASS byte
	LegacyDataFallback bool
}

// Summary is the rendered form of a header, one string per report line
type Summary struct {
	Magic      string `json:"magic"`
	Class      string `json:"class"`
	Data       string `json:"data"`
	Version    string `json:"version"`
	OSABI      string `json:"os_abi"`
	ABIVersion uint8  `json:"abi_version"`
	Type       string `json:"type"`
	Entry      string `json:"entry_point_address"`
}

// Summarize renders every field of h
func Summarize(h *Header, opts ReportOptions) Summary {
	id := h.Ident
	return Summary{
		Magic:      id.Magic(),
		Class:      ClassField(id).String(),
		Data:       DataField(id, opts.LegacyDataFallback).String(),
		Version:    VersionField(id).String(),
		OSABI:      OSABIField(id).String(),
		ABIVersion: id.ABIVersion(),
		Type:       TypeField(h.Type).String(),
		Entry:      FormatEntry(id, h.Entry),
	}
}

// WriteReport writes the text report for h to w.
//
// The layout is fixed:
//
//	ELF Header:
//	 Magic: 7f 45 4c 46 02 01 01 00 00 00 00 00 00 00 00 00
//	 Class: ELF64
//	 Data: 2's complement, little endian
//	 Version: 1 (current)
//	 OS/ABI: UNIX - System V
//	 ABI Version: 0
//	 Type: EXEC (Executable file)
//	 Entry point address: 0x400078
func WriteReport(w io.Writer, h *Header, opts ReportOptions) error {
	s := Summarize(h, opts)

	lines := []struct {
		label string
		value interface{}
	}{
		{"Magic", s.Magic},
		{"Class", s.Class},
		{"Data", s.Data},
		{"Version", s.Version},
		{"OS/ABI", s.OSABI},
		{"ABI Version", s.ABIVersion},
		{"Type", s.Type},
		{"Entry point address", s.Entry},
	}

	if _, err := fmt.Fprintln(w, "ELF Header:"); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, " %s: %v\n", l.label, l.value); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the summary of h to w as indented JSON
func WriteJSON(w io.Writer, h *Header, opts ReportOptions) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Summarize(h, opts))
}

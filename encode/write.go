package encode

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// WriteObjectFile writes the `.ob` image: a header line of "IC DC" followed
// by one "AAAA OOOOO" line per emitted word, addresses ascending.
func WriteObjectFile(w io.Writer, res *Result) error {
	if _, err := fmt.Fprintf(w, "%d %d\n", res.IC, res.DC); err != nil {
		return err
	}
	for _, addr := range sortedAddresses(res.Image) {
		if _, err := fmt.Fprintf(w, "%04d %05o\n", addr, res.Image[addr]&wordMask); err != nil {
			return err
		}
	}
	return nil
}

// WriteEntryFile writes the `.ent` file: one "symbol address" line per
// entry. The caller should omit the file entirely when len(res.Entries)==0.
func WriteEntryFile(w io.Writer, res *Result) error {
	for _, e := range res.Entries {
		if _, err := fmt.Fprintf(w, "%s %d\n", e.Symbol, e.Address); err != nil {
			return err
		}
	}
	return nil
}

// WriteExternFile writes the `.ext` file: one "symbol address" line per use
// site. The caller should omit the file entirely when len(res.Externs)==0.
func WriteExternFile(w io.Writer, res *Result) error {
	for _, e := range res.Externs {
		if _, err := fmt.Fprintf(w, "%s %d\n", e.Symbol, e.Address); err != nil {
			return err
		}
	}
	return nil
}

func sortedAddresses(image map[uint32]uint16) []uint32 {
	addrs := make([]uint32, 0, len(image))
	for a := range image {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// WriteOutputFiles creates the object file, and the entry/extern files only
// when they would be non-empty, following the base filename convention
// (base + ".ob"/".ent"/".ext").
func WriteOutputFiles(baseName string, res *Result) error {
	obFile, err := os.Create(baseName + ".ob") // #nosec G304 -- user-supplied assembler output path
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer obFile.Close()
	if err := WriteObjectFile(obFile, res); err != nil {
		return fmt.Errorf("failed to write object file: %w", err)
	}

	if len(res.Entries) > 0 {
		entFile, err := os.Create(baseName + ".ent") // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to create entry file: %w", err)
		}
		defer entFile.Close()
		if err := WriteEntryFile(entFile, res); err != nil {
			return fmt.Errorf("failed to write entry file: %w", err)
		}
	}

	if len(res.Externs) > 0 {
		extFile, err := os.Create(baseName + ".ext") // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to create extern file: %w", err)
		}
		defer extFile.Close()
		if err := WriteExternFile(extFile, res); err != nil {
			return fmt.Errorf("failed to write extern file: %w", err)
		}
	}

	return nil
}

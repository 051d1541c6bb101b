// Package library finds the policy PDFs to ingest.
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrFolderNotFound is returned when the policy folder does not exist.
	ErrFolderNotFound = errors.New("policy folder not found")
	// ErrNoPDFs is returned when the policy folder holds no PDF files.
	ErrNoPDFs = errors.New("no PDF files found in policy folder")
)

// ScannedFile represents a PDF found in the policy folder.
type ScannedFile struct {
	Name    string // File name, used as the chunk source
	AbsPath string // Absolute file path
}

// ScanPDFs lists the PDF files directly inside dir, sorted by name.
// Subdirectories are not descended into.
func ScanPDFs(dir string) ([]ScannedFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, dir)
		}
		return nil, fmt.Errorf("failed to access policy folder %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrFolderNotFound, dir)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve policy folder %s: %w", dir, err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy folder %s: %w", dir, err)
	}

	var files []ScannedFile
	for _, entry := range entries {
		if entry.IsDir() || !IsPDF(entry.Name()) {
			continue
		}
		files = append(files, ScannedFile{
			Name:    entry.Name(),
			AbsPath: filepath.Join(absDir, entry.Name()),
		})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPDFs, dir)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// IsPDF reports whether name has a .pdf extension, in any case.
// Hidden files (editor and OS artifacts) are ignored.
func IsPDF(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".pdf")
}

package entities

import (
	"os"
	"time"
)

// EntryKind classifies an archive entry.
type EntryKind int

const (
	EntryOther EntryKind = iota
	EntryFile
	EntryDir
	EntrySymlink
)

func (k EntryKind) String() string {
	switch k {
	case EntryFile:
		return "file"
	case EntryDir:
		return "directory"
	case EntrySymlink:
		return "symlink"
	default:
		return "other"
	}
}

// ArchiveEntry is one record read from a decompressed archive.
type ArchiveEntry struct {
	Path       string
	Kind       EntryKind
	Size       int64
	Mode       os.FileMode
	ModTime    time.Time
	LinkTarget string
}

// ExtractOptions controls one extraction.
type ExtractOptions struct {
	// StripPrefix names the synthetic top-level directory: a first path
	// component starting with it is dropped. Empty disables stripping.
	StripPrefix string
	Verbose     bool
}

// ExtractResult summarizes an extraction. Bytes counts regular-file content.
type ExtractResult struct {
	Entries int
	Skipped int
	Bytes   int64
}

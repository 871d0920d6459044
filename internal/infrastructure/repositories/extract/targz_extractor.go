package extract

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	units "github.com/docker/go-units"
	"github.com/klauspost/compress/gzip"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

const (
	copyBufferSize = 32 * 1024
	dirMode        = 0o755
)

// TarGzExtractor unpacks gzip-compressed tarballs.
type TarGzExtractor struct{}

// NewTarGzExtractor creates a new TarGzExtractor.
func NewTarGzExtractor() repositories.ArchiveExtractor {
	return &TarGzExtractor{}
}

// directory is a created directory whose metadata is applied once every
// entry is written, so read-only modes cannot block later entries.
type directory struct {
	path    string
	mode    os.FileMode
	modTime time.Time
}

// Extract decompresses archive and writes its entries below destination in
// archive order. Any malformed entry or path violation stops the extraction;
// what was written so far is left in place.
func (e *TarGzExtractor) Extract(
	ctx context.Context,
	archive []byte,
	destination string,
	opts entities.ExtractOptions,
) (*entities.ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(destination)
	if err != nil {
		return nil, fmt.Errorf("invalid destination %q: %w", destination, err)
	}
	if mkdirErr := os.MkdirAll(root, dirMode); mkdirErr != nil {
		return nil, fmt.Errorf("failed to create destination %q: %w", root, mkdirErr)
	}

	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, entities.NewOperationError("extract", root, entities.ErrDecode, err)
	}
	defer gz.Close()

	result := &entities.ExtractResult{}
	var directories []directory
	var links []entities.ArchiveEntry
	reader := tar.NewReader(gz)
	for {
		header, nextErr := reader.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return nil, entities.NewOperationError("extract", root, entities.ErrDecode, nextErr)
		}

		entry := entryOf(header)
		if header.Typeflag == tar.TypeXGlobalHeader {
			result.Skipped++
			continue
		}

		target, sanitizeErr := SanitizeEntryPath(entry.Path, root, opts.StripPrefix)
		if sanitizeErr != nil {
			return nil, sanitizeErr
		}
		if target == root {
			result.Skipped++
			continue
		}

		written, materializeErr := materialize(root, target, entry, reader)
		if materializeErr != nil {
			return nil, materializeErr
		}
		if !written {
			logger.Debugf("Skipping %s entry %q", entry.Kind, entry.Path)
			result.Skipped++
			continue
		}

		if entry.Kind == entities.EntryDir {
			directories = append(directories, directory{path: target, mode: entry.Mode, modTime: entry.ModTime})
		}
		if entry.Kind == entities.EntrySymlink {
			links = append(links, entry)
		}
		if entry.Kind == entities.EntryFile {
			result.Bytes += entry.Size
		}
		result.Entries++
		if opts.Verbose {
			logger.Debugf("Extracted %s %q", entry.Kind, target)
		}
	}

	// later entries may have turned a path component into a symlink
	if linkErr := recheckLinks(root, links, opts.StripPrefix); linkErr != nil {
		return nil, linkErr
	}

	for i := len(directories) - 1; i >= 0; i-- {
		dir := directories[i]
		if chmodErr := os.Chmod(dir.path, dir.mode); chmodErr != nil {
			return nil, fmt.Errorf("failed to set mode of %q: %w", dir.path, chmodErr)
		}
		if timeErr := os.Chtimes(dir.path, dir.modTime, dir.modTime); timeErr != nil {
			return nil, fmt.Errorf("failed to set times of %q: %w", dir.path, timeErr)
		}
	}

	logger.Infof("Extracted %d entries (%s) into %q",
		result.Entries, units.HumanSize(float64(result.Bytes)), root)
	return result, nil
}

func entryOf(header *tar.Header) entities.ArchiveEntry {
	kind := entities.EntryOther
	switch header.Typeflag {
	case tar.TypeReg:
		kind = entities.EntryFile
	case tar.TypeDir:
		kind = entities.EntryDir
	case tar.TypeSymlink:
		kind = entities.EntrySymlink
	}

	return entities.ArchiveEntry{
		Path:       header.Name,
		Kind:       kind,
		Size:       header.Size,
		Mode:       header.FileInfo().Mode().Perm(),
		ModTime:    header.ModTime,
		LinkTarget: header.Linkname,
	}
}

// materialize creates one entry at target and reports whether it was written.
// The parent directory is resolved with securejoin, so a symlink extracted
// earlier cannot redirect the entry outside root.
func materialize(root, target string, entry entities.ArchiveEntry, content io.Reader) (bool, error) {
	if entry.Kind == entities.EntryOther {
		return false, nil
	}

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false, violation(entry.Path, "resolves outside the destination")
	}
	parent, err := securejoin.SecureJoin(root, filepath.Dir(rel))
	if err != nil {
		return false, fmt.Errorf("failed to resolve %q: %w", entry.Path, err)
	}
	if !within(root, parent) {
		return false, violation(entry.Path, "parent resolves outside the destination")
	}
	path := filepath.Join(parent, filepath.Base(rel))

	if mkdirErr := os.MkdirAll(parent, dirMode); mkdirErr != nil {
		return false, fmt.Errorf("failed to create %q: %w", parent, mkdirErr)
	}

	switch entry.Kind {
	case entities.EntryDir:
		return true, writeDir(path)
	case entities.EntryFile:
		return true, writeFile(path, entry, content)
	case entities.EntrySymlink:
		return true, writeSymlink(root, path, entry)
	default:
		return false, nil
	}
}

func writeDir(path string) error {
	if info, err := os.Lstat(path); err == nil && !info.IsDir() {
		if removeErr := os.Remove(path); removeErr != nil {
			return fmt.Errorf("failed to replace %q: %w", path, removeErr)
		}
	}
	if err := os.MkdirAll(path, dirMode); err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	return nil
}

func writeFile(path string, entry entities.ArchiveEntry, content io.Reader) error {
	if info, err := os.Lstat(path); err == nil && !info.Mode().IsRegular() {
		if removeErr := os.RemoveAll(path); removeErr != nil {
			return fmt.Errorf("failed to replace %q: %w", path, removeErr)
		}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	copyErr := copyEntry(file, content, entry.Path)
	closeErr := file.Close()
	if copyErr != nil {
		return copyErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to write %q: %w", path, closeErr)
	}

	if chmodErr := os.Chmod(path, entry.Mode); chmodErr != nil {
		return fmt.Errorf("failed to set mode of %q: %w", path, chmodErr)
	}
	if timeErr := os.Chtimes(path, entry.ModTime, entry.ModTime); timeErr != nil {
		return fmt.Errorf("failed to set times of %q: %w", path, timeErr)
	}
	return nil
}

// writeSymlink only accepts relative targets that stay below root.
func writeSymlink(root, path string, entry entities.ArchiveEntry) error {
	target := filepath.FromSlash(entry.LinkTarget)
	if target == "" || filepath.IsAbs(target) {
		return violation(entry.Path, "symlink target is absolute")
	}
	if err := checkLinkTarget(root, filepath.Dir(path), target); err != nil {
		return violation(entry.Path, err.Error())
	}

	if _, err := os.Lstat(path); err == nil {
		if removeErr := os.RemoveAll(path); removeErr != nil {
			return fmt.Errorf("failed to replace %q: %w", path, removeErr)
		}
	}
	if err := os.Symlink(target, path); err != nil {
		return fmt.Errorf("failed to link %q: %w", path, err)
	}
	return nil
}

// recheckLinks validates the created symlinks against the final tree and
// removes an offending one before reporting it.
func recheckLinks(root string, links []entities.ArchiveEntry, stripPrefix string) error {
	for _, entry := range links {
		target, err := SanitizeEntryPath(entry.Path, root, stripPrefix)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, target)
		if err != nil {
			return violation(entry.Path, "resolves outside the destination")
		}
		parent, err := securejoin.SecureJoin(root, filepath.Dir(rel))
		if err != nil {
			return fmt.Errorf("failed to resolve %q: %w", entry.Path, err)
		}
		path := filepath.Join(parent, filepath.Base(rel))

		current, readErr := os.Readlink(path)
		if readErr != nil {
			// replaced by a later entry
			continue
		}
		if checkErr := checkLinkTarget(root, parent, current); checkErr != nil {
			_ = os.Remove(path)
			return violation(entry.Path, checkErr.Error())
		}
	}
	return nil
}

// checkLinkTarget walks target from dir one segment at a time. Every step
// must stay below root, and ".." may not leave a symlink: on disk it would
// climb from the link's target rather than from the link itself.
func checkLinkTarget(root, dir, target string) error {
	current := dir
	for _, segment := range strings.Split(target, string(filepath.Separator)) {
		switch segment {
		case "", ".":
			continue
		case "..":
			if info, err := os.Lstat(current); err == nil && info.Mode()&os.ModeSymlink != 0 {
				return errors.New("symlink target climbs out of another symlink")
			}
			current = filepath.Dir(current)
		default:
			current = filepath.Join(current, segment)
		}
		if !within(root, current) {
			return errors.New("symlink target escapes the destination")
		}
	}
	return nil
}

// copyEntry copies one entry body. Failures reading the archive are decode
// failures, failures writing the file are returned as is.
func copyEntry(dst io.Writer, src io.Reader, name string) error {
	buf := make([]byte, copyBufferSize)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("failed to write %q: %w", name, writeErr)
			}
		}
		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return entities.NewOperationError("extract", name, entities.ErrDecode, readErr)
		}
	}
}

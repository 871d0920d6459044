//go:build unit

package extract_test

import (
	"archive/tar"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/infrastructure/repositories/extract"
)

const topLevel = "php-php-src-php-8.4.11-0-ga42bbd3/"

//nolint:gochecknoglobals // fixed timestamp shared by fixtures
var archivedAt = time.Date(2025, time.July, 31, 12, 0, 0, 0, time.UTC)

type fixtureEntry struct {
	name     string
	typeflag byte
	body     string
	mode     int64
	linkname string
}

func file(name, body string) fixtureEntry {
	return fixtureEntry{name: name, typeflag: tar.TypeReg, body: body, mode: 0o644}
}

func dir(name string) fixtureEntry {
	return fixtureEntry{name: name, typeflag: tar.TypeDir, mode: 0o755}
}

func buildArchive(t *testing.T, entries ...fixtureEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, entry := range entries {
		header := &tar.Header{
			Name:     entry.name,
			Typeflag: entry.typeflag,
			Mode:     entry.mode,
			Size:     int64(len(entry.body)),
			Linkname: entry.linkname,
			ModTime:  archivedAt,
			Format:   tar.FormatPAX,
		}
		if entry.typeflag != tar.TypeReg {
			header.Size = 0
		}
		require.NoError(t, tw.WriteHeader(header))
		if header.Size > 0 {
			_, err := tw.Write([]byte(entry.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func newDestination(t *testing.T) (string, string) {
	t.Helper()

	sandbox := t.TempDir()
	return sandbox, filepath.Join(sandbox, "archives", "8.4.11")
}

func extractWithPrefix(t *testing.T, archive []byte, destination string) (*entities.ExtractResult, error) {
	t.Helper()

	return extract.NewTarGzExtractor().Extract(
		context.Background(), archive, destination, entities.ExtractOptions{StripPrefix: "php-php-src"},
	)
}

func TestTarGzExtractorExtract(t *testing.T) {
	t.Parallel()

	t.Run("should strip the synthetic top-level directory", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)
		archive := buildArchive(t,
			dir(topLevel),
			dir(topLevel+"ext/"),
			dir(topLevel+"ext/curl/"),
			file(topLevel+"ext/curl/config.m4", "PHP_ARG_WITH([curl])\n"),
			file(topLevel+"buildconf", "#!/bin/sh\n"),
		)

		// when
		result, err := extractWithPrefix(t, archive, destination)

		// then
		require.NoError(t, err)
		content, readErr := os.ReadFile(filepath.Join(destination, "ext", "curl", "config.m4"))
		require.NoError(t, readErr)
		assert.Equal(t, "PHP_ARG_WITH([curl])\n", string(content))
		assert.NoDirExists(t, filepath.Join(destination, "php-php-src-php-8.4.11-0-ga42bbd3"))
		assert.FileExists(t, filepath.Join(destination, "buildconf"))
		assert.Equal(t, 4, result.Entries)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, int64(len("PHP_ARG_WITH([curl])\n")+len("#!/bin/sh\n")), result.Bytes)
	})

	t.Run("should reject a traversal entry without writing outside the destination", func(t *testing.T) {
		t.Parallel()

		// given
		sandbox, destination := newDestination(t)
		archive := buildArchive(t,
			file(topLevel+"README.md", "php"),
			file("../../etc/passwd", "root:x:0:0"),
		)

		// when
		_, err := extractWithPrefix(t, archive, destination)

		// then
		require.ErrorIs(t, err, entities.ErrPathViolation)
		assert.ErrorContains(t, err, "../../etc/passwd")
		assert.NoFileExists(t, filepath.Join(sandbox, "etc", "passwd"))
		assert.NoFileExists(t, filepath.Join(filepath.Dir(sandbox), "etc", "passwd"))
	})

	t.Run("should reject an absolute entry", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)
		archive := buildArchive(t, file("/tmp/phpmgr-absolute-entry", "owned"))

		// when
		_, err := extractWithPrefix(t, archive, destination)

		// then
		require.ErrorIs(t, err, entities.ErrPathViolation)
		assert.NoFileExists(t, "/tmp/phpmgr-absolute-entry")
	})

	t.Run("should preserve permission bits and modification times", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)
		script := file(topLevel+"scripts/phpize", "#!/bin/sh\n")
		script.mode = 0o755
		readOnly := dir(topLevel + "locked/")
		readOnly.mode = 0o555
		archive := buildArchive(t,
			dir(topLevel+"scripts/"),
			script,
			readOnly,
			file(topLevel+"locked/inner.txt", "inside a read-only dir"),
		)

		// when
		_, err := extractWithPrefix(t, archive, destination)

		// then
		require.NoError(t, err)
		scriptInfo, statErr := os.Stat(filepath.Join(destination, "scripts", "phpize"))
		require.NoError(t, statErr)
		assert.Equal(t, os.FileMode(0o755), scriptInfo.Mode().Perm())
		assert.True(t, scriptInfo.ModTime().Equal(archivedAt))

		lockedInfo, lockedErr := os.Stat(filepath.Join(destination, "locked"))
		require.NoError(t, lockedErr)
		assert.Equal(t, os.FileMode(0o555), lockedInfo.Mode().Perm())
		assert.True(t, lockedInfo.ModTime().Equal(archivedAt))
		assert.FileExists(t, filepath.Join(destination, "locked", "inner.txt"))

		t.Cleanup(func() { _ = os.Chmod(filepath.Join(destination, "locked"), 0o755) })
	})

	t.Run("should overwrite existing files when extracting again", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)
		first := buildArchive(t, file(topLevel+"NEWS", "first release notes, longer than the second"))
		second := buildArchive(t, file(topLevel+"NEWS", "second"))
		_, err := extractWithPrefix(t, first, destination)
		require.NoError(t, err)

		// when
		_, err = extractWithPrefix(t, second, destination)

		// then
		require.NoError(t, err)
		content, readErr := os.ReadFile(filepath.Join(destination, "NEWS"))
		require.NoError(t, readErr)
		assert.Equal(t, "second", string(content))
	})

	t.Run("should let the last entry win for duplicate paths", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)
		archive := buildArchive(t,
			file(topLevel+"VERSION", "8.4.10"),
			file(topLevel+"VERSION", "8.4.11"),
		)

		// when
		_, err := extractWithPrefix(t, archive, destination)

		// then
		require.NoError(t, err)
		content, readErr := os.ReadFile(filepath.Join(destination, "VERSION"))
		require.NoError(t, readErr)
		assert.Equal(t, "8.4.11", string(content))
	})

	t.Run("should create symlinks that stay inside the destination", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)
		archive := buildArchive(t,
			dir(topLevel+"main/"),
			file(topLevel+"main/php.h", "#define PHP_H"),
			fixtureEntry{name: topLevel + "include", typeflag: tar.TypeSymlink, linkname: "main", mode: 0o777},
		)

		// when
		_, err := extractWithPrefix(t, archive, destination)

		// then
		require.NoError(t, err)
		target, linkErr := os.Readlink(filepath.Join(destination, "include"))
		require.NoError(t, linkErr)
		assert.Equal(t, "main", target)
		assert.FileExists(t, filepath.Join(destination, "include", "php.h"))
	})

	t.Run("should reject symlinks that point outside the destination", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)
		archive := buildArchive(t,
			fixtureEntry{name: topLevel + "escape", typeflag: tar.TypeSymlink, linkname: "../../..", mode: 0o777},
		)

		// when
		_, err := extractWithPrefix(t, archive, destination)

		// then
		require.ErrorIs(t, err, entities.ErrPathViolation)
		_, statErr := os.Lstat(filepath.Join(destination, "escape"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("should reject symlinks that climb out of another symlink", func(t *testing.T) {
		t.Parallel()

		// given
		sandbox, destination := newDestination(t)
		archive := buildArchive(t,
			dir(topLevel+"sub/"),
			fixtureEntry{name: topLevel + "sub/a", typeflag: tar.TypeSymlink, linkname: "../q", mode: 0o777},
			dir(topLevel+"q/"),
			fixtureEntry{name: topLevel + "L", typeflag: tar.TypeSymlink, linkname: "sub/a/../..", mode: 0o777},
		)

		// when
		_, err := extractWithPrefix(t, archive, destination)

		// then
		require.ErrorIs(t, err, entities.ErrPathViolation)
		assert.ErrorContains(t, err, "L")
		_, statErr := os.Lstat(filepath.Join(destination, "L"))
		assert.True(t, os.IsNotExist(statErr))
		assert.NoDirExists(t, filepath.Join(sandbox, "archives", "L"))
	})

	t.Run("should reject a symlink that a later entry redirects outside", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)
		archive := buildArchive(t,
			fixtureEntry{name: topLevel + "L", typeflag: tar.TypeSymlink, linkname: "x/..", mode: 0o777},
			fixtureEntry{name: topLevel + "x", typeflag: tar.TypeSymlink, linkname: ".", mode: 0o777},
		)

		// when
		_, err := extractWithPrefix(t, archive, destination)

		// then
		require.ErrorIs(t, err, entities.ErrPathViolation)
		_, statErr := os.Lstat(filepath.Join(destination, "L"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("should accept symlinks that pass through a contained symlink", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)
		archive := buildArchive(t,
			dir(topLevel+"sub/"),
			dir(topLevel+"q/"),
			file(topLevel+"q/php.h", "#define PHP_H"),
			fixtureEntry{name: topLevel + "sub/a", typeflag: tar.TypeSymlink, linkname: "../q", mode: 0o777},
			fixtureEntry{name: topLevel + "header", typeflag: tar.TypeSymlink, linkname: "sub/a/php.h", mode: 0o777},
		)

		// when
		_, err := extractWithPrefix(t, archive, destination)

		// then
		require.NoError(t, err)
		content, readErr := os.ReadFile(filepath.Join(destination, "header"))
		require.NoError(t, readErr)
		assert.Equal(t, "#define PHP_H", string(content))
	})

	t.Run("should skip hard links and pax global headers", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		tw := tar.NewWriter(gz)
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:       "pax_global_header",
			Typeflag:   tar.TypeXGlobalHeader,
			PAXRecords: map[string]string{"comment": "a42bbd3"},
		}))
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: topLevel + "NEWS", Typeflag: tar.TypeReg, Mode: 0o644, Size: 4, ModTime: archivedAt,
		}))
		_, err := tw.Write([]byte("news"))
		require.NoError(t, err)
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: topLevel + "NEWS.link", Typeflag: tar.TypeLink, Linkname: topLevel + "NEWS", ModTime: archivedAt,
		}))
		require.NoError(t, tw.Close())
		require.NoError(t, gz.Close())

		// when
		result, extractErr := extractWithPrefix(t, buf.Bytes(), destination)

		// then
		require.NoError(t, extractErr)
		assert.Equal(t, 1, result.Entries)
		assert.Equal(t, 2, result.Skipped)
		assert.FileExists(t, filepath.Join(destination, "NEWS"))
		assert.NoFileExists(t, filepath.Join(destination, "NEWS.link"))
		assert.NoFileExists(t, filepath.Join(destination, "pax_global_header"))
	})

	t.Run("should fail with a decode error on data that is not gzip", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)

		// when
		_, err := extractWithPrefix(t, []byte("<html>Not Found</html>"), destination)

		// then
		require.ErrorIs(t, err, entities.ErrDecode)
	})

	t.Run("should fail with a decode error on a truncated archive", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)
		archive := buildArchive(t, file(topLevel+"big.txt", string(bytes.Repeat([]byte("abcdefgh"), 64*1024))))

		// when
		_, err := extractWithPrefix(t, archive[:len(archive)/2], destination)

		// then
		require.ErrorIs(t, err, entities.ErrDecode)
	})

	t.Run("should not start with a canceled context", func(t *testing.T) {
		t.Parallel()

		// given
		_, destination := newDestination(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		_, err := extract.NewTarGzExtractor().Extract(ctx, buildArchive(t), destination, entities.ExtractOptions{})

		// then
		require.ErrorIs(t, err, context.Canceled)
		assert.NoDirExists(t, destination)
	})
}

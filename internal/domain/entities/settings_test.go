//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".phpmgr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestNewSettings(t *testing.T) {
	t.Run("should apply defaults to an empty file", func(t *testing.T) {
		t.Parallel()

		// given
		workDir := t.TempDir()
		path := writeConfig(t, "work_dir: "+workDir+"\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(workDir, ".phpmgr"), settings.WorkDir)
		assert.Equal(t, "https://api.github.com/", settings.APIURL)
		assert.Equal(t, "php", settings.Owner)
		assert.Equal(t, "php-src", settings.Repository)
		assert.Equal(t, "php-", settings.TagPrefix)
		assert.Equal(t, "php-php-src", settings.ArchivePrefix)
		assert.Equal(t, 100, settings.PageSize)
		assert.Equal(t, 12*1024*1024, settings.MinArchiveSize)
		assert.Contains(t, settings.ConfigureFlags, "--enable-mbstring")
	})

	t.Run("should read every field from the file", func(t *testing.T) {
		t.Parallel()

		// given
		workDir := filepath.Join(t.TempDir(), ".phpmgr")
		path := writeConfig(t, `
work_dir: `+workDir+`
api_url: https://github.example.com/api/v3
owner: acme
repository: php-fork
tag_prefix: acme-
archive_url: https://mirror.example.com/php-{version}.tar.gz
archive_prefix: php-fork
page_size: 50
min_archive_size: 2048
configure_flags: ["--with-zlib"]
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, workDir, settings.WorkDir)
		assert.Equal(t, "https://github.example.com/api/v3/", settings.APIURL)
		assert.Equal(t, "acme", settings.Owner)
		assert.Equal(t, "php-fork", settings.Repository)
		assert.Equal(t, "acme-", settings.TagPrefix)
		assert.Equal(t, 50, settings.PageSize)
		assert.Equal(t, 2048, settings.MinArchiveSize)
		assert.Equal(t, []string{"--with-zlib"}, settings.ConfigureFlags)
		assert.Equal(t, "https://mirror.example.com/php-8.4.11.tar.gz", settings.ArchiveURLFor("php-8.4.11"))
	})

	t.Run("should reject an archive url without the version placeholder", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "work_dir: "+t.TempDir()+"\narchive_url: https://example.com/php.tar.gz\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.ErrorContains(t, err, "{version}")
		assert.Nil(t, settings)
	})

	t.Run("should reject a page size above the API limit", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "work_dir: "+t.TempDir()+"\npage_size: 500\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.ErrorContains(t, err, "page_size")
	})

	t.Run("should fail on malformed yaml", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "work_dir: [unterminated\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.ErrorContains(t, err, "failed to parse config file")
	})

	t.Run("should fail on a missing file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "absent.yaml")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("should let the environment override the work dir", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		override := t.TempDir()
		t.Setenv(entities.WorkDirEnv, override)
		path := writeConfig(t, "work_dir: /somewhere/else\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(override, ".phpmgr"), settings.WorkDir)
	})

	t.Run("should resolve the token from the environment", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("PHPMGR_TEST_TOKEN", "ghp_secret")
		path := writeConfig(t, "work_dir: "+t.TempDir()+"\ntoken: ${PHPMGR_TEST_TOKEN}\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "ghp_secret", settings.Token)
	})
}

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestResolveToken(t *testing.T) {
	t.Run("should return an inline token unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "ghp_abc123xyz"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Equal(t, "ghp_abc123xyz", result)
	})

	t.Run("should return empty for an unset env var", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "${DEFINITELY_NOT_SET_PHPMGR_VAR}"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Empty(t, result)
	})

	t.Run("should read the token from a file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("  file-token\n"), 0o600))

		// when
		result := entities.ResolveToken(path)

		// then
		assert.Equal(t, "file-token", result)
	})

	t.Run("should expand a variable pointing at a token file", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("from-file"), 0o600))
		t.Setenv("PHPMGR_TOKEN_FILE", path)

		// when
		result := entities.ResolveToken("${PHPMGR_TOKEN_FILE}")

		// then
		assert.Equal(t, "from-file", result)
	})
}

func TestNormalizeWorkDir(t *testing.T) {
	t.Parallel()

	t.Run("should append the work dir name", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()

		// when
		result, err := entities.NormalizeWorkDir(dir)

		// then
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ".phpmgr"), result)
	})

	t.Run("should keep a path already ending with the work dir name", func(t *testing.T) {
		t.Parallel()

		// given
		dir := filepath.Join(t.TempDir(), ".phpmgr")

		// when
		result, err := entities.NormalizeWorkDir(dir)

		// then
		require.NoError(t, err)
		assert.Equal(t, dir, result)
	})

	t.Run("should expand the home directory", func(t *testing.T) {
		t.Parallel()

		// given
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}

		// when
		result, err := entities.NormalizeWorkDir("~/tools")

		// then
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "tools", ".phpmgr"), result)
	})
}

//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/test/domain/entitybuilders"
)

func TestCatalog(t *testing.T) {
	t.Parallel()

	t.Run("should reject a tag with the same full identity", func(t *testing.T) {
		t.Parallel()

		// given
		tag := entitybuilders.NewTagBuilder().BuildTag()
		catalog := entities.NewCatalog(tag)

		// when
		inserted := catalog.Insert(tag)

		// then
		assert.False(t, inserted)
		assert.Equal(t, 1, catalog.Len())
	})

	t.Run("should accept a tag that differs only in its node id", func(t *testing.T) {
		t.Parallel()

		// given
		builder := entitybuilders.NewTagBuilder()
		catalog := entities.NewCatalog(builder.BuildTag())

		// when
		inserted := catalog.Insert(builder.WithNodeID("other").BuildTag())

		// then
		assert.True(t, inserted)
		assert.Equal(t, 2, catalog.Len())
	})

	t.Run("should retain only tags with the prefix", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entities.NewCatalog(
			entitybuilders.NewTagBuilder().WithName("php-8.4.1").BuildTag(),
			entitybuilders.NewTagBuilder().WithName("php_5.0.0").BuildTag(),
			entitybuilders.NewTagBuilder().WithName("PRE_NEW_OCI8_EXTENSION").BuildTag(),
		)

		// when
		removed := catalog.Retain("php-")

		// then
		assert.Equal(t, 2, removed)
		require.Len(t, catalog.Tags(), 1)
		assert.Equal(t, "php-8.4.1", catalog.Tags()[0].Name)
	})

	t.Run("should order tags newest first with unparseable names last", func(t *testing.T) {
		t.Parallel()

		// given
		tags := entitybuilders.BuildVersions("7.4.33", "8.4.0RC1", "8.10.0", "8.4.0", "8.4.0alpha1", "8.9.2")
		tags = append(tags, entitybuilders.NewTagBuilder().WithName("php-src-base").BuildTag())
		catalog := entities.NewCatalog(tags...)

		// when
		ordered := catalog.Tags()

		// then
		names := make([]string, 0, len(ordered))
		for _, tag := range ordered {
			names = append(names, tag.Version())
		}
		assert.Equal(t, []string{"8.10.0", "8.9.2", "8.4.0", "8.4.0RC1", "8.4.0alpha1", "7.4.33", "src-base"}, names)
	})

	t.Run("should find a member by version with or without prefix", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entities.NewCatalog(entitybuilders.BuildVersions("8.3.0", "8.2.0")...)

		// when
		withPrefix, foundWithPrefix := catalog.Find("php-8.3.0")
		withoutPrefix, foundWithoutPrefix := catalog.Find("8.2.0")
		_, foundMissing := catalog.Find("5.6.40")

		// then
		assert.True(t, foundWithPrefix)
		assert.Equal(t, "php-8.3.0", withPrefix.Name)
		assert.True(t, foundWithoutPrefix)
		assert.Equal(t, "php-8.2.0", withoutPrefix.Name)
		assert.False(t, foundMissing)
	})

	t.Run("should compare catalogs as sets", func(t *testing.T) {
		t.Parallel()

		// given
		tags := entitybuilders.BuildVersions("8.3.0", "8.2.0", "8.1.0")
		left := entities.NewCatalog(tags...)
		right := entities.NewCatalog(tags[2], tags[0], tags[1])
		smaller := entities.NewCatalog(tags[:2]...)

		// when
		same := left.Equal(right)
		different := left.Equal(smaller)

		// then
		assert.True(t, same)
		assert.False(t, different)
		assert.False(t, left.Equal(nil))
	})
}

func TestTagClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tag    string
		semver string
		alpha  bool
		beta   bool
		rc     bool
	}{
		{name: "stable release", tag: "php-8.4.11", semver: "v8.4.11"},
		{name: "release candidate", tag: "php-8.4.0RC1", semver: "v8.4.0-rc1", rc: true},
		{name: "beta release", tag: "php-8.4.0beta2", semver: "v8.4.0-beta2", beta: true},
		{name: "alpha release", tag: "php-8.4.0alpha1", semver: "v8.4.0-alpha1", alpha: true},
		{name: "two-part version", tag: "php-5.3", semver: "v5.3"},
		{name: "unparseable name", tag: "php-src-base", semver: ""},
	}

	for _, tt := range tests {
		t.Run("should classify "+tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			tag := entitybuilders.NewTagBuilder().WithName(tt.tag).BuildTag()

			// when
			semver := tag.Semver()

			// then
			assert.Equal(t, tt.semver, semver)
			assert.Equal(t, tt.alpha, tag.IsAlpha())
			assert.Equal(t, tt.beta, tag.IsBeta())
			if tt.semver != "" {
				assert.Equal(t, tt.rc, tag.IsRC())
				assert.Equal(t, !tt.alpha && !tt.beta && !tt.rc, tag.IsStable())
			}
		})
	}
}

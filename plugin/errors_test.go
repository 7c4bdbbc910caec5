package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gencraft/gencraft/errors"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("hey-api", []string{
		"@gencraft/plugin-hey-api",
		"/ws/packages/hey-api/dist/gencraft.plugin.toml",
	})

	assert.True(t, IsNotFound(err))
	assert.False(t, IsLoadError(err))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "hey-api", nf.Name)
	assert.Len(t, nf.Attempted, 2)
	assert.Contains(t, err.Error(), "@gencraft/plugin-hey-api")
	assert.Contains(t, err.Error(), "dist/gencraft.plugin.toml")
}

func TestLoadError(t *testing.T) {
	t.Run("wraps cause", func(t *testing.T) {
		cause := errors.New("unexpected token")
		err := NewLoadError("orval", cause)

		assert.True(t, IsLoadError(err))
		assert.True(t, errors.Is(err, cause))
		assert.Contains(t, err.Error(), "orval")
		assert.Contains(t, err.Error(), "unexpected token")
	})

	t.Run("export shape diagnostics", func(t *testing.T) {
		err := NewExportShapeError("@gencraft/plugin-orval", []string{"helper", "settings"})

		assert.True(t, IsLoadError(err))
		assert.Contains(t, err.Error(), "does not export a valid plugin")
		assert.Contains(t, err.Error(), "helper")
		assert.Contains(t, err.Error(), "settings")
	})
}

func TestInstallError(t *testing.T) {
	cause := errors.Wrap(errors.ErrTimeout, "install did not finish within 5m0s")
	err := NewInstallError("@gencraft/plugin-hey-api", "pnpm", cause)

	assert.True(t, IsInstallError(err))
	assert.True(t, errors.IsTimeout(err))
	assert.Contains(t, err.Error(), "@gencraft/plugin-hey-api")
	assert.Contains(t, err.Error(), "pnpm")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("hey-api", "client", "required option is missing")

	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "hey-api")
	assert.Contains(t, err.Error(), "client")

	t.Run("field optional", func(t *testing.T) {
		err := NewValidationError("hey-api", "", "no options given")
		assert.Contains(t, err.Error(), "no options given")
	})
}

func TestTaxonomyIsDistinct(t *testing.T) {
	notFound := NewNotFoundError("a", nil)
	load := NewLoadError("a", errors.New("boom"))
	install := NewInstallError("a", "npm", errors.New("boom"))

	assert.False(t, IsLoadError(notFound))
	assert.False(t, IsNotFound(load))
	assert.False(t, IsNotFound(install))
	assert.False(t, IsInstallError(load))
}

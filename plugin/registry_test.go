package plugin

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Plugin Implementation
// =============================================================================

type mockPlugin struct {
	name          string
	generateErr   error
	validateErr   error
	mu            sync.Mutex
	generateCalls int
}

func newMockPlugin(name string) *mockPlugin {
	return &mockPlugin{name: name}
}

func (m *mockPlugin) Name() string { return m.name }

func (m *mockPlugin) Generate(ctx context.Context, opts GenerateOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateCalls++
	return m.generateErr
}

func (m *mockPlugin) Validate(ctx context.Context, opts GenerateOptions) error {
	return m.validateErr
}

func (m *mockPlugin) Schema() map[string]SchemaField {
	return map[string]SchemaField{
		"client": {Type: "string", Description: "client flavor"},
	}
}

// Verify mockPlugin implements the plugin interfaces
var (
	_ Plugin         = (*mockPlugin)(nil)
	_ Validator      = (*mockPlugin)(nil)
	_ SchemaProvider = (*mockPlugin)(nil)
)

// =============================================================================
// Registry Tests
// =============================================================================

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry(zap.NewNop().Sugar())
	assert.NotNil(t, registry)
	assert.Empty(t, registry.List())
}

func TestRegistry_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		registry := NewRegistry(nil)
		p := newMockPlugin("openapi-tools")

		registry.Register(p)

		retrieved, err := registry.Get("openapi-tools")
		require.NoError(t, err)
		assert.Equal(t, p, retrieved)
	})

	t.Run("last registration wins", func(t *testing.T) {
		registry := NewRegistry(nil)
		first := newMockPlugin("hey-api")
		second := newMockPlugin("hey-api")

		registry.Register(first)
		registry.Register(second)

		retrieved, err := registry.Get("hey-api")
		require.NoError(t, err)
		assert.Same(t, second, retrieved)
		assert.Len(t, registry.List(), 1)
	})
}

func TestRegistry_Has(t *testing.T) {
	registry := NewRegistry(nil)
	registry.Register(newMockPlugin("orval"))

	assert.True(t, registry.Has("orval"))
	assert.False(t, registry.Has("missing"))
}

func TestRegistry_Get_Missing(t *testing.T) {
	registry := NewRegistry(nil)

	_, err := registry.Get("missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.Name)
}

func TestRegistry_List_Sorted(t *testing.T) {
	registry := NewRegistry(nil)
	registry.Register(newMockPlugin("zeta"))
	registry.Register(newMockPlugin("alpha"))
	registry.Register(newMockPlugin("mid"))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, registry.List())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewRegistry(nil)

	var wg sync.WaitGroup
	names := []string{"a", "b", "c", "d"}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := names[i%len(names)]
			registry.Register(newMockPlugin(name))
			registry.Has(name)
			registry.List()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, names, registry.List())
}

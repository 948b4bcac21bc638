package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vendor string

func TestRegistry(t *testing.T) {
	r := New[vendor, int]()

	_, ok := r.Lookup("missing")
	assert.False(t, ok)

	r.Register("openai", 2)
	r.Register("gemini", 1)
	v, ok := r.Lookup("gemini")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []vendor{"gemini", "openai"}, r.Keys())
	assert.Equal(t, 2, r.Len())

	r.Register("gemini", 10)
	v, _ = r.Lookup("gemini")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	r := New[string, int]()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Register(string(rune('a'+i%26)), i)
			r.Lookup("a")
		}()
	}
	wg.Wait()
	assert.Equal(t, 26, r.Len())
}

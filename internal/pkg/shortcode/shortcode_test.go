package shortcode

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Run("default length", func(t *testing.T) {
		code, err := Generate(DefaultLength)
		require.NoError(t, err)
		assert.Len(t, code, DefaultLength)
	})

	t.Run("long length", func(t *testing.T) {
		code, err := Generate(LongLength)
		require.NoError(t, err)
		assert.Len(t, code, LongLength)
	})

	t.Run("lowercase hex only", func(t *testing.T) {
		code, err := Generate(DefaultLength)
		require.NoError(t, err)
		for _, r := range code {
			assert.Contains(t, "0123456789abcdef", string(r))
		}
	})

	t.Run("rejects invalid lengths", func(t *testing.T) {
		for _, length := range []int{0, -2, 7} {
			_, err := Generate(length)
			assert.Error(t, err, "length %d should be rejected", length)
		}
	})
}

func TestGenerateDistinctUnderConcurrency(t *testing.T) {
	const n = 500

	var mu sync.Mutex
	seen := make(map[string]bool, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := Generate(DefaultLength)
			if err != nil {
				t.Errorf("generate failed: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			seen[code] = true
		}()
	}
	wg.Wait()

	// 500 draws from a 2^32 space should essentially never collide.
	assert.Len(t, seen, n, "expected all generated codes to be distinct")
}

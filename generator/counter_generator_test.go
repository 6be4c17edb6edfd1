package generator

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounterGenerator(t *testing.T) {
	value := int64(100)
	g := NewCounterGenerator(value)
	require.Equal(t, value-1, g.LastInt())
	for i := int64(0); i < 5; i++ {
		require.Equal(t, value+i, g.NextInt())
		require.Equal(t, value+i, g.LastInt())
	}
	for i := int64(5); i < 10; i++ {
		require.Equal(t, fmt.Sprintf("%d", value+i), g.NextString())
		require.Equal(t, fmt.Sprintf("%d", value+i), g.LastString())
	}
}

func TestCounterGeneratorConcurrent(t *testing.T) {
	g := NewCounterGenerator(1)
	routines := 8
	each := 1000
	seen := make([][]int64, routines)
	var wg sync.WaitGroup
	for r := 0; r < routines; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				seen[r] = append(seen[r], g.NextInt())
			}
		}(r)
	}
	wg.Wait()
	all := make(map[int64]bool)
	for _, s := range seen {
		for _, v := range s {
			require.False(t, all[v])
			all[v] = true
		}
	}
	require.Equal(t, routines*each, len(all))
	require.Equal(t, int64(routines*each), g.LastInt())
}

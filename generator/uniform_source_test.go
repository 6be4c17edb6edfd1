package generator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUniformSource(t *testing.T) {
	src := NewUniformSource()
	var sum float64
	total := 100000
	for i := 0; i < total; i++ {
		v := src.Float64()
		require.True(t, v >= 0 && v < 1)
		sum += v
	}
	require.InDelta(t, 0.5, sum/float64(total), 0.01)
	for i := 0; i < 100; i++ {
		v := src.Int63n(10)
		require.True(t, v >= 0 && v < 10)
	}
	b := make([]byte, 16)
	n, err := src.Read(b)
	require.Nil(t, err)
	require.Equal(t, 16, n)
}

func TestUniformSourceWithSeed(t *testing.T) {
	s1 := NewUniformSourceWithSeed(42)
	s2 := NewUniformSourceWithSeed(42)
	s3 := NewUniformSourceWithSeed(43)
	var differs bool
	for i := 0; i < 1000; i++ {
		v1 := s1.Float64()
		require.Equal(t, v1, s2.Float64())
		if v1 != s3.Float64() {
			differs = true
		}
	}
	require.True(t, differs)
}

func TestUniformSourceEntropySeeded(t *testing.T) {
	s1 := NewUniformSource()
	s2 := NewUniformSource()
	var differs bool
	for i := 0; i < 10; i++ {
		if s1.Float64() != s2.Float64() {
			differs = true
		}
	}
	require.True(t, differs)
}

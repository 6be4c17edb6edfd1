package generator

import (
	"fmt"
	"testing"
)

var (
	benchSkews = []float64{0.5, 1.5}
	sink       int64
)

func benchmarkCreate(b *testing.B, name string, sizes []int64) {
	for _, n := range sizes {
		for _, skew := range benchSkews {
			b.Run(fmt.Sprintf("n=%d/skew=%g", n, skew), func(b *testing.B) {
				src := NewUniformSourceWithSeed(1)
				for i := 0; i < b.N; i++ {
					if _, err := New(name, n, skew, src); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func benchmarkSample(b *testing.B, name string, sizes []int64) {
	for _, n := range sizes {
		for _, skew := range benchSkews {
			b.Run(fmt.Sprintf("n=%d/skew=%g", n, skew), func(b *testing.B) {
				g, err := New(name, n, skew, NewUniformSourceWithSeed(1))
				if err != nil {
					b.Fatal(err)
				}
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					sink = g.Sample()
				}
			})
		}
	}
}

func BenchmarkYCSBCreate(b *testing.B) {
	benchmarkCreate(b, "ycsb", []int64{1000000, 100000000})
}

func BenchmarkRejectionInversionCreate(b *testing.B) {
	benchmarkCreate(b, "rejinv", []int64{1000000, 1000000000})
}

// Construction dominates for large n, so stop at 100M.
func BenchmarkYCSBSample(b *testing.B) {
	benchmarkSample(b, "ycsb", []int64{1000000, 100000000})
}

func BenchmarkRejectionInversionSample(b *testing.B) {
	benchmarkSample(b, "rejinv", []int64{1000000, 1000000000})
}

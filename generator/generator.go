package generator

import (
	"sort"
)

// Generator is the single capability shared by every sampler: produce one
// sample per call. Implementations own their random source and are not safe
// for concurrent use; give each goroutine its own instance.
type Generator interface {
	Sample() int64
}

// MakeGeneratorFunc constructs a generator over [1, n] with the given skew,
// drawing uniforms from src.
type MakeGeneratorFunc func(n int64, skew float64, src Source) (Generator, error)

var (
	Generators map[string]MakeGeneratorFunc
)

func init() {
	Generators = map[string]MakeGeneratorFunc{
		"rejinv": func(n int64, skew float64, src Source) (Generator, error) {
			return NewRejectionInversionGeneratorWithSource(n, skew, src)
		},
		"ycsb": func(n int64, skew float64, src Source) (Generator, error) {
			return NewZetaInversionGeneratorWithSource(n, skew, src)
		},
	}
}

// New creates the generator registered under name. A nil src is replaced
// by a fresh entropy-seeded UniformSource.
func New(name string, n int64, skew float64, src Source) (Generator, error) {
	f, ok := Generators[name]
	if !ok {
		return nil, invalidArgumentf("unsupported generator: %q", name)
	}
	if src == nil {
		src = NewUniformSource()
	}
	return f(n, skew, src)
}

// Names returns the registered generator names in sorted order.
func Names() []string {
	ret := make([]string, 0, len(Generators))
	for name := range Generators {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

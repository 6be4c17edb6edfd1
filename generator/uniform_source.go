package generator

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mathext/prng"
)

// Source yields uniformly distributed doubles in [0, 1).
type Source interface {
	Float64() float64
}

// UniformSource is a 32-bit Mersenne Twister engine. Every generator owns
// exactly one and it is never shared between goroutines.
type UniformSource struct {
	rand *rand.Rand
}

// NewUniformSource returns a source seeded from the system entropy device.
// The wall clock is used only when entropy cannot be read.
func NewUniformSource() *UniformSource {
	return NewUniformSourceWithSeed(entropySeed())
}

// NewUniformSourceWithSeed returns a source whose stream is fully determined
// by seed. The engine consumes the low 32 bits of it.
func NewUniformSourceWithSeed(seed uint64) *UniformSource {
	mt := prng.NewMT19937()
	mt.Seed(seed)
	return &UniformSource{
		rand: rand.New(mt),
	}
}

func (self *UniformSource) Float64() float64 {
	return self.rand.Float64()
}

// Int63n returns a value in [0, n). It panics if n <= 0.
func (self *UniformSource) Int63n(n int64) int64 {
	return self.rand.Int63n(n)
}

// Read fills p with random bytes.
func (self *UniformSource) Read(p []byte) (int, error) {
	return self.rand.Read(p)
}

func entropySeed() uint64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

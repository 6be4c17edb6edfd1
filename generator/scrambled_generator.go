package generator

import (
	"encoding/binary"
	"hash/fnv"
)

// ScrambledGenerator keeps the popularity profile of an underlying
// generator but scatters the popular values over [1, numElements] by
// hashing every sample. Collisions mean the result is only approximately
// the base distribution.
type ScrambledGenerator struct {
	base        Generator
	numElements int64
}

func NewScrambledGenerator(base Generator, numElements int64) (*ScrambledGenerator, error) {
	if numElements <= 0 {
		return nil, invalidArgumentf("number of elements is not strictly positive: %d", numElements)
	}
	return &ScrambledGenerator{
		base:        base,
		numElements: numElements,
	}, nil
}

func (self *ScrambledGenerator) Sample() int64 {
	return 1 + int64(Hash(self.base.Sample())%uint64(self.numElements))
}

// Hash is the 64-bit FNV-1a hash of the little-endian bytes of v.
func Hash(v int64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	h := fnv.New64a()
	h.Write(b[:])
	return h.Sum64()
}

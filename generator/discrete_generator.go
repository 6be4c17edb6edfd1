package generator

import (
	"github.com/pkg/errors"
)

type Pair struct {
	Weight float64
	Value  string
}

// DiscreteGenerator picks one of a fixed set of labels, each with
// probability weight / sum(weights).
type DiscreteGenerator struct {
	values    []*Pair
	sum       float64
	lastValue string
	src       Source
}

func NewDiscreteGenerator(src Source) *DiscreteGenerator {
	return &DiscreteGenerator{
		values:    make([]*Pair, 0),
		lastValue: "",
		src:       src,
	}
}

// NextString returns a random label. It panics if no value was added.
func (self *DiscreteGenerator) NextString() string {
	if len(self.values) == 0 {
		panic(errors.New("discrete generator has no values"))
	}
	value := self.src.Float64()
	for _, p := range self.values {
		v := p.Weight / self.sum
		if value < v {
			self.lastValue = p.Value
			return p.Value
		}
		value -= v
	}
	// rounding may leave a sliver past the last bucket
	self.lastValue = self.values[len(self.values)-1].Value
	return self.lastValue
}

func (self *DiscreteGenerator) LastString() string {
	if len(self.lastValue) == 0 {
		self.lastValue = self.NextString()
	}
	return self.lastValue
}

// AddValue registers value with the given weight. Non-positive weights are
// ignored.
func (self *DiscreteGenerator) AddValue(weight float64, value string) {
	if !(weight > 0) {
		return
	}
	self.values = append(self.values, &Pair{
		Weight: weight,
		Value:  value,
	})
	self.sum += weight
}

// Len returns the number of registered values.
func (self *DiscreteGenerator) Len() int {
	return len(self.values)
}

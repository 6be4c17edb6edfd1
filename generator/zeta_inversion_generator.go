package generator

import (
	"math"
)

const (
	// ZipfianConstant is the skew YCSB uses when none is configured.
	ZipfianConstant = float64(0.99)
)

// Zeta returns the generalized harmonic number H(n, theta), the sum of
// i^-theta for i in [1, n].
func Zeta(n int64, theta float64) float64 {
	return zetaStatic(0, n, theta, 0)
}

// Compute the zeta constant incrementally: initialSum holds the sum over
// the first st items and the result covers the first n items.
func zetaStatic(st, n int64, theta, initialSum float64) float64 {
	sum := initialSum
	for i := st; i < n; i++ {
		sum += 1 / math.Pow(float64(i+1), theta)
	}
	return sum
}

// A generator of a zipfian distribution over [1, numElements]. Value 1 is
// the most popular, 2 the next most popular, and so on. Use a
// ScrambledGenerator on top of it if the popular items should be spread
// over the item space instead.
//
// Be aware: constructing this generator takes O(numElements) time because
// zeta is a sum over every element (over a minute for 100 million items).
// Sampling itself is O(1). The head of the distribution (values 1 and 2) is
// exact, the tail is an approximation.
//
// The skew theta must be positive and must not be 1.
//
// The algorithm used here is from
// "Quickly Generating Billion-Record Synthetic Databases",
// Jim Gray et al, SIGMOD 1994.
type ZetaInversionGenerator struct {
	numElements int64
	theta       float64
	// Computed parameters for generating the distribution.
	alpha, zetan, eta, zeta2theta, halfPowTheta float64

	src Source
}

// NewZetaInversionGenerator creates a generator with its own
// entropy-seeded source.
func NewZetaInversionGenerator(numElements int64, theta float64) (*ZetaInversionGenerator, error) {
	return NewZetaInversionGeneratorWithSource(numElements, theta, NewUniformSource())
}

// NewZetaInversionGeneratorWithSource creates a generator drawing its
// uniforms from src. The source must not be shared with another generator.
func NewZetaInversionGeneratorWithSource(
	numElements int64, theta float64, src Source) (*ZetaInversionGenerator, error) {

	if numElements <= 0 {
		return nil, invalidArgumentf("number of elements is not strictly positive: %d", numElements)
	}
	if !(theta > 0) {
		return nil, invalidArgumentf("theta is not strictly positive: %v", theta)
	}
	if theta == 1 {
		return nil, invalidArgumentf("theta must not be 1")
	}
	object := &ZetaInversionGenerator{
		numElements:  numElements,
		theta:        theta,
		alpha:        1.0 / (1.0 - theta),
		zetan:        Zeta(numElements, theta),
		zeta2theta:   Zeta(2, theta),
		halfPowTheta: math.Pow(0.5, theta),
		src:          src,
	}
	object.updateEta()
	return object, nil
}

func (self *ZetaInversionGenerator) NumElements() int64 {
	return self.numElements
}

func (self *ZetaInversionGenerator) Theta() float64 {
	return self.theta
}

// Zetan returns H(NumElements(), Theta()) as currently held by the
// generator.
func (self *ZetaInversionGenerator) Zetan() float64 {
	return self.zetan
}

// Sample returns the next value in [1, NumElements()].
func (self *ZetaInversionGenerator) Sample() int64 {
	u := self.src.Float64()
	uz := u * self.zetan
	if uz < 1.0 {
		return 1
	}
	if uz < 1.0+self.halfPowTheta {
		return 2
	}
	n := float64(self.numElements)
	x := n * math.Pow(self.eta*u-self.eta+1.0, self.alpha)
	// u close to 1 may round up past the last element
	if !(x < n-1) {
		return self.numElements
	}
	return 1 + int64(x)
}

// Resize changes the number of elements to draw from. Growing extends zeta
// incrementally from the current count, which is cheap unless millions of
// items are added. Shrinking recomputes zeta from scratch, which is
// expensive for large item sets.
func (self *ZetaInversionGenerator) Resize(numElements int64) error {
	if numElements <= 0 {
		return invalidArgumentf("number of elements is not strictly positive: %d", numElements)
	}
	switch {
	case numElements > self.numElements:
		self.zetan = zetaStatic(self.numElements, numElements, self.theta, self.zetan)
	case numElements < self.numElements:
		self.zetan = Zeta(numElements, self.theta)
	default:
		return nil
	}
	self.numElements = numElements
	self.updateEta()
	return nil
}

func (self *ZetaInversionGenerator) updateEta() {
	self.eta = (1 - math.Pow(2.0/float64(self.numElements), 1-self.theta)) /
		(1 - self.zeta2theta/self.zetan)
}

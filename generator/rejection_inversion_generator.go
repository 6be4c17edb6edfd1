package generator

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// MaxRejectionIterations bounds the accept/reject loop of a single
	// sample. The expected number of iterations is close to one, so
	// reaching the cap means the precomputed constants are broken.
	MaxRejectionIterations = 1000000

	// Below this magnitude the closed forms of helper1 and helper2 lose
	// precision and their Taylor expansions are used instead.
	taylorThreshold = 1e-8
)

// RejectionInversionGenerator generates integers in [1, numElements]
// following a Zipf distribution with the given exponent, i.e. the
// probability of k is proportional to k^-exponent.
//
// Construction is O(1) and every sample costs a small expected number of
// transcendental evaluations, so it scales to very large element counts.
// Any positive exponent is accepted, including exponent == 1.
//
// The algorithm is from
// "Rejection-Inversion to Generate Variates from Monotone Discrete
// Distributions", Wolfgang Hörmann and Gerhard Derflinger,
// ACM TOMACS 6.3 (1996): 169-184.
type RejectionInversionGenerator struct {
	numElements int64
	exponent    float64

	hIntegralX1          float64
	hIntegralNumElements float64
	s                    float64

	maxIterations int
	src           Source
}

// NewRejectionInversionGenerator creates a generator with its own
// entropy-seeded source.
func NewRejectionInversionGenerator(
	numElements int64, exponent float64) (*RejectionInversionGenerator, error) {

	return NewRejectionInversionGeneratorWithSource(numElements, exponent, NewUniformSource())
}

// NewRejectionInversionGeneratorWithSource creates a generator drawing its
// uniforms from src. The source must not be shared with another generator.
func NewRejectionInversionGeneratorWithSource(
	numElements int64, exponent float64, src Source) (*RejectionInversionGenerator, error) {

	if numElements <= 0 {
		return nil, invalidArgumentf("number of elements is not strictly positive: %d", numElements)
	}
	if !(exponent > 0) {
		return nil, invalidArgumentf("exponent is not strictly positive: %v", exponent)
	}
	object := &RejectionInversionGenerator{
		numElements:   numElements,
		exponent:      exponent,
		maxIterations: MaxRejectionIterations,
		src:           src,
	}
	object.hIntegralX1 = object.hIntegral(1.5) - 1.0
	object.hIntegralNumElements = object.hIntegral(float64(numElements) + 0.5)
	object.s = 2.0 - object.hIntegralInverse(object.hIntegral(2.5)-object.h(2.0))
	return object, nil
}

func (self *RejectionInversionGenerator) NumElements() int64 {
	return self.numElements
}

func (self *RejectionInversionGenerator) Exponent() float64 {
	return self.exponent
}

// Sample returns the next value in [1, NumElements()].
//
// It panics with an error wrapping ErrSamplingFailure if no candidate is
// accepted within MaxRejectionIterations attempts.
func (self *RejectionInversionGenerator) Sample() int64 {
	n := float64(self.numElements)
	for i := 0; i < self.maxIterations; i++ {
		u := self.hIntegralNumElements +
			self.src.Float64()*(self.hIntegralX1-self.hIntegralNumElements)
		x := self.hIntegralInverse(u)
		// Clamp while still a float so that NaN and huge values cannot
		// overflow the integer conversion.
		kf := math.Floor(x + 0.5)
		if !(kf >= 1) {
			kf = 1
		} else if kf > n {
			kf = n
		}
		// Every candidate k is accepted with probability proportional to
		// h(k) over the width of its hIntegral cell, which leaves
		// P(k) = C * k^-exponent. k == 1 always passes the second test.
		// The s test is a cheap sufficient condition for the second one.
		if kf-x <= self.s || u >= self.hIntegral(kf+0.5)-self.h(kf) {
			if kf >= n {
				return self.numElements
			}
			return int64(kf)
		}
	}
	panic(errors.Wrapf(ErrSamplingFailure,
		"no sample accepted after %d iterations (numElements=%d, exponent=%v)",
		self.maxIterations, self.numElements, self.exponent))
}

// h is the hazard function, h(x) = x^-exponent.
func (self *RejectionInversionGenerator) h(x float64) float64 {
	return math.Exp(-self.exponent * math.Log(x))
}

// hIntegral is an integral of h, (x^(1-exponent) - 1) / (1 - exponent),
// continuously extended to exponent == 1 where it equals log(x).
func (self *RejectionInversionGenerator) hIntegral(x float64) float64 {
	logX := math.Log(x)
	return helper2((1.0-self.exponent)*logX) * logX
}

// hIntegralInverse is the inverse of hIntegral.
func (self *RejectionInversionGenerator) hIntegralInverse(x float64) float64 {
	t := x * (1.0 - self.exponent)
	if t < -1.0 {
		// rounding
		t = -1.0
	}
	return math.Exp(helper1(t) * x)
}

// helper1 computes log1p(x) / x, falling back to a Taylor expansion for
// small |x| so that the result stays well defined at x == 0.
func helper1(x float64) float64 {
	if math.Abs(x) > taylorThreshold {
		return math.Log1p(x) / x
	}
	return 1.0 - x*(0.5-x*(1.0/3.0-0.25*x))
}

// helper2 computes expm1(x) / x, falling back to a Taylor expansion for
// small |x| so that the result stays well defined at x == 0.
func helper2(x float64) float64 {
	if math.Abs(x) > taylorThreshold {
		return math.Expm1(x) / x
	}
	return 1.0 + x*0.5*(1.0+x*1.0/3.0*(1.0+0.25*x))
}

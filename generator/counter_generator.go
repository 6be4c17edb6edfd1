package generator

import (
	"fmt"
	"sync/atomic"
)

// CounterGenerator hands out consecutive integers. Unlike the samplers it
// is safe for concurrent use.
type CounterGenerator struct {
	count int64
}

func NewCounterGenerator(startCount int64) *CounterGenerator {
	return &CounterGenerator{
		count: startCount - 1,
	}
}

func (self *CounterGenerator) NextInt() int64 {
	return atomic.AddInt64(&self.count, 1)
}

func (self *CounterGenerator) NextString() string {
	return fmt.Sprintf("%d", self.NextInt())
}

func (self *CounterGenerator) LastInt() int64 {
	return atomic.LoadInt64(&self.count)
}

func (self *CounterGenerator) LastString() string {
	return fmt.Sprintf("%d", self.LastInt())
}

package zipf

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	g "github.com/hhkbp2/zipf/generator"
)

// FrequencyCounter counts how often each value in [1, n] was drawn.
type FrequencyCounter struct {
	n      int64
	total  int64
	counts map[int64]int64
}

func NewFrequencyCounter(n int64) *FrequencyCounter {
	return &FrequencyCounter{
		n:      n,
		counts: make(map[int64]int64),
	}
}

func (self *FrequencyCounter) Add(v int64) {
	self.counts[v]++
	self.total++
}

func (self *FrequencyCounter) Count(v int64) int64 {
	return self.counts[v]
}

func (self *FrequencyCounter) Total() int64 {
	return self.total
}

// WriteTo writes one "value count" line for every value in [1, n],
// including the ones never drawn.
func (self *FrequencyCounter) WriteTo(w io.Writer) (int64, error) {
	buf := bufio.NewWriter(w)
	var written int64
	for i := int64(1); i <= self.n; i++ {
		c, err := fmt.Fprintf(buf, "%d %d\n", i, self.counts[i])
		written += int64(c)
		if err != nil {
			return written, err
		}
	}
	return written, buf.Flush()
}

// SampleFrequencies draws numSamples values from gen.
func SampleFrequencies(gen g.Generator, numElements, numSamples int64) (*FrequencyCounter, error) {
	if numElements <= 0 || numSamples < 0 {
		return nil, errors.Errorf("invalid histogram size: %d elements, %d samples",
			numElements, numSamples)
	}
	counter := NewFrequencyCounter(numElements)
	for i := int64(0); i < numSamples; i++ {
		counter.Add(gen.Sample())
	}
	return counter, nil
}

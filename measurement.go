package zipf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/pkg/errors"
)

// Measurements collects the latencies and return codes of DB operations,
// keyed by operation name. It is shared by all client routines.
type Measurements interface {
	// Record one latency in microseconds.
	Measure(operation string, latency int64)

	// A one line summary for the periodic status report.
	GetSummary() string

	// Count one return code.
	ReportStatus(operation string, status StatusType)

	ExportMeasurements(exporter MeasurementExporter) error
}

// OperationHistogram keeps the latency histogram and the return code counts
// of one operation.
type OperationHistogram struct {
	name        string
	lock        sync.Mutex
	histogram   *hdrhistogram.Histogram
	percentiles []int64
	// values above the trackable maximum
	overflow int64
	statuses map[StatusType]int64
}

func parsePercentileValues(prop, defaultValue string) []int64 {
	parts := strings.Split(prop, ",")
	ret := make([]int64, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || i <= 0 || i >= 100 {
			return parsePercentileValues(defaultValue, defaultValue)
		}
		ret = append(ret, i)
	}
	return ret
}

func NewOperationHistogram(name string, props Properties) (*OperationHistogram, error) {
	max, err := props.GetInt64(PropertyHdrHistogramMax, PropertyHdrHistogramMaxDefault)
	if err != nil {
		return nil, err
	}
	sig, err := props.GetInt64(PropertyHdrHistogramSig, PropertyHdrHistogramSigDefault)
	if err != nil {
		return nil, err
	}
	if max < 2 || sig < 1 || sig > 5 {
		return nil, errors.Errorf("invalid hdrhistogram settings: max=%d sig=%d", max, sig)
	}
	return &OperationHistogram{
		name:      name,
		histogram: hdrhistogram.New(1, max, int(sig)),
		percentiles: parsePercentileValues(
			props.GetDefault(PropertyPercentiles, PropertyPercentilesDefault),
			PropertyPercentilesDefault),
		statuses: make(map[StatusType]int64),
	}, nil
}

func (self *OperationHistogram) Name() string {
	return self.name
}

// Measure records a latency in microseconds. Latencies below one are
// recorded as one.
func (self *OperationHistogram) Measure(latency int64) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if latency < 1 {
		latency = 1
	}
	if err := self.histogram.RecordValue(latency); err != nil {
		self.overflow++
	}
}

func (self *OperationHistogram) ReportStatus(status StatusType) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.statuses[status]++
}

// GetSummary is empty until the first latency is recorded.
func (self *OperationHistogram) GetSummary() string {
	self.lock.Lock()
	defer self.lock.Unlock()
	h := self.histogram
	if h.TotalCount() == 0 {
		return ""
	}
	return fmt.Sprintf("[%s: Count=%d, Max=%d, Min=%d, Avg=%.2f, 90=%d, 99=%d, 99.9=%d, 99.99=%d]",
		self.name, h.TotalCount(), h.Max(), h.Min(), h.Mean(),
		h.ValueAtQuantile(90), h.ValueAtQuantile(99),
		h.ValueAtQuantile(99.9), h.ValueAtQuantile(99.99))
}

func ordinal(p int64) string {
	suffix := "th"
	switch {
	case p%100 >= 11 && p%100 <= 13:
	case p%10 == 1:
		suffix = "st"
	case p%10 == 2:
		suffix = "nd"
	case p%10 == 3:
		suffix = "rd"
	}
	return strconv.FormatInt(p, 10) + suffix
}

func (self *OperationHistogram) ExportMeasurements(exporter MeasurementExporter) (err error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	defer catch(&err)

	h := self.histogram
	try(exporter.Write(self.name, "Operations", h.TotalCount()))
	try(exporter.Write(self.name, "AverageLatency(us)", h.Mean()))
	try(exporter.Write(self.name, "MinLatency(us)", h.Min()))
	try(exporter.Write(self.name, "MaxLatency(us)", h.Max()))
	for _, p := range self.percentiles {
		try(exporter.Write(self.name, ordinal(p)+"PercentileLatency(us)", h.ValueAtQuantile(float64(p))))
	}
	if self.overflow > 0 {
		try(exporter.Write(self.name, "Overflow", self.overflow))
	}
	statuses := make([]StatusType, 0, len(self.statuses))
	for status := range self.statuses {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i] < statuses[j]
	})
	for _, status := range statuses {
		try(exporter.Write(self.name, "Return="+status.String(), self.statuses[status]))
	}
	return
}

func try(err error) {
	if err != nil {
		panic(err)
	}
}

// catch turns a panic raised by try back into an error.
func catch(err *error) {
	if p := recover(); p != nil {
		e, ok := p.(error)
		if !ok {
			panic(p)
		}
		*err = e
	}
}

// DefaultMeasurements creates one OperationHistogram per operation name on
// first use.
type DefaultMeasurements struct {
	props      Properties
	lock       sync.RWMutex
	operations map[string]*OperationHistogram
}

func NewDefaultMeasurements(props Properties) (*DefaultMeasurements, error) {
	// fail early on bad histogram settings instead of at the first operation
	if _, err := NewOperationHistogram("", props); err != nil {
		return nil, err
	}
	return &DefaultMeasurements{
		props:      props,
		operations: make(map[string]*OperationHistogram),
	}, nil
}

func (self *DefaultMeasurements) operation(name string) *OperationHistogram {
	self.lock.RLock()
	h, ok := self.operations[name]
	self.lock.RUnlock()
	if ok {
		return h
	}
	self.lock.Lock()
	defer self.lock.Unlock()
	if h, ok = self.operations[name]; !ok {
		// the properties were validated by NewDefaultMeasurements
		h, _ = NewOperationHistogram(name, self.props)
		self.operations[name] = h
	}
	return h
}

// sorted returns the histograms ordered by operation name.
func (self *DefaultMeasurements) sorted() []*OperationHistogram {
	self.lock.RLock()
	defer self.lock.RUnlock()
	ret := make([]*OperationHistogram, 0, len(self.operations))
	for _, h := range self.operations {
		ret = append(ret, h)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].name < ret[j].name
	})
	return ret
}

func (self *DefaultMeasurements) Measure(operation string, latency int64) {
	self.operation(operation).Measure(latency)
}

func (self *DefaultMeasurements) ReportStatus(operation string, status StatusType) {
	self.operation(operation).ReportStatus(status)
}

func (self *DefaultMeasurements) GetSummary() string {
	parts := make([]string, 0)
	for _, h := range self.sorted() {
		if s := h.GetSummary(); len(s) > 0 {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func (self *DefaultMeasurements) ExportMeasurements(exporter MeasurementExporter) error {
	for _, h := range self.sorted() {
		if err := h.ExportMeasurements(exporter); err != nil {
			return err
		}
	}
	return nil
}

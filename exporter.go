package zipf

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// MeasurementExporter writes measurements in some output format, such as
// human readable text or JSON.
type MeasurementExporter interface {
	// Write one measured value. v is an integer or a float64.
	Write(metric string, measurement string, v interface{}) error
	io.Closer
}

type MakeMeasurementExporterFunc func(w io.WriteCloser) MeasurementExporter

var (
	MeasurementExporters = map[string]MakeMeasurementExporterFunc{
		"TextMeasurementExporter": func(w io.WriteCloser) MeasurementExporter {
			return NewTextMeasurementExporter(w)
		},
		"JSONMeasurementExporter": func(w io.WriteCloser) MeasurementExporter {
			return NewJSONMeasurementExporter(w)
		},
		"JSONArrayMeasurementExporter": func(w io.WriteCloser) MeasurementExporter {
			return NewJSONArrayMeasurementExporter(w)
		},
	}
)

func NewMeasurementExporter(className string, w io.WriteCloser) (MeasurementExporter, error) {
	f, ok := MeasurementExporters[className]
	if !ok {
		return nil, errors.Errorf("unsupported measurement exporter: %s", className)
	}
	return f(w), nil
}

// bufferedExporter formats every value with format and writes the records
// between prefix and suffix, separated by sep.
type bufferedExporter struct {
	w       io.WriteCloser
	buf     *bufio.Writer
	format  func(metric string, measurement string, v interface{}) ([]byte, error)
	sep     string
	suffix  string
	written bool
}

func newBufferedExporter(w io.WriteCloser, prefix string) *bufferedExporter {
	buf := bufio.NewWriter(w)
	buf.WriteString(prefix)
	return &bufferedExporter{
		w:   w,
		buf: buf,
	}
}

func (self *bufferedExporter) Write(metric string, measurement string, v interface{}) error {
	b, err := self.format(metric, measurement, v)
	if err != nil {
		return err
	}
	if self.written {
		if _, err = self.buf.WriteString(self.sep); err != nil {
			return err
		}
	}
	self.written = true
	_, err = self.buf.Write(b)
	return err
}

// Close flushes the buffered records and closes the underlying writer.
func (self *bufferedExporter) Close() error {
	self.buf.WriteString(self.suffix)
	err := self.buf.Flush()
	if cerr := self.w.Close(); err == nil {
		err = cerr
	}
	return err
}

// TextMeasurementExporter writes one "[metric], measurement, value" line
// per value.
type TextMeasurementExporter struct {
	*bufferedExporter
}

func NewTextMeasurementExporter(w io.WriteCloser) *TextMeasurementExporter {
	e := newBufferedExporter(w, "")
	e.format = func(metric string, measurement string, v interface{}) ([]byte, error) {
		return []byte(fmt.Sprintf("[%s], %s, %v\n", metric, measurement, v)), nil
	}
	return &TextMeasurementExporter{e}
}

type jsonMeasurement struct {
	Metric      string      `json:"metric"`
	Measurement string      `json:"measurement"`
	Value       interface{} `json:"value"`
}

func marshalMeasurement(metric string, measurement string, v interface{}) ([]byte, error) {
	return json.Marshal(&jsonMeasurement{
		Metric:      metric,
		Measurement: measurement,
		Value:       v,
	})
}

// JSONMeasurementExporter writes one JSON object per line.
type JSONMeasurementExporter struct {
	*bufferedExporter
}

func NewJSONMeasurementExporter(w io.WriteCloser) *JSONMeasurementExporter {
	e := newBufferedExporter(w, "")
	e.format = func(metric string, measurement string, v interface{}) ([]byte, error) {
		b, err := marshalMeasurement(metric, measurement, v)
		return append(b, '\n'), err
	}
	return &JSONMeasurementExporter{e}
}

// JSONArrayMeasurementExporter writes a single JSON array of measurement
// objects.
type JSONArrayMeasurementExporter struct {
	*bufferedExporter
}

func NewJSONArrayMeasurementExporter(w io.WriteCloser) *JSONArrayMeasurementExporter {
	e := newBufferedExporter(w, "[")
	e.format = marshalMeasurement
	e.sep = ","
	e.suffix = "]"
	return &JSONArrayMeasurementExporter{e}
}

package experiments

import (
	"encoding/json"
	"os"

	"github.com/unixpickle/essentials"
)

// A MetricWriter appends scalar metrics to a JSON-lines
// file, keyed by global step.
type MetricWriter struct {
	file *os.File
	enc  *json.Encoder
}

type metricRecord struct {
	Step  int     `json:"step"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// NewMetricWriter creates or truncates the file at path.
func NewMetricWriter(path string) (*MetricWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, essentials.AddCtx("create metric writer", err)
	}
	return &MetricWriter{file: file, enc: json.NewEncoder(file)}, nil
}

// Add appends one metric record.
func (m *MetricWriter) Add(step int, name string, value float64) error {
	err := m.enc.Encode(metricRecord{Step: step, Name: name, Value: value})
	return essentials.AddCtx("write metric", err)
}

// Close flushes and closes the underlying file.
func (m *MetricWriter) Close() error {
	return m.file.Close()
}

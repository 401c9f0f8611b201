package actioncal

// A History is a fixed-capacity sliding window over recent
// simulation steps.
//
// Each entry holds the batched predicted and executed
// actions from one tick, packed one row per environment
// instance.
// It is implemented as a ring buffer: appending at
// capacity evicts the oldest step.
type History struct {
	numEnvs    int
	actionSize int

	predicted [][]float64
	executed  [][]float64
	start     int
	count     int
}

// NewHistory creates an empty window.
func NewHistory(capacity, numEnvs, actionSize int) *History {
	return &History{
		numEnvs:    numEnvs,
		actionSize: actionSize,
		predicted:  make([][]float64, capacity),
		executed:   make([][]float64, capacity),
	}
}

// Cap returns the window capacity in steps.
func (h *History) Cap() int {
	return len(h.predicted)
}

// Len returns the number of steps currently stored.
// It never exceeds Cap.
func (h *History) Len() int {
	return h.count
}

// NumEnvs returns the number of rows per step.
func (h *History) NumEnvs() int {
	return h.numEnvs
}

// ActionSize returns the number of components per row.
func (h *History) ActionSize() int {
	return h.actionSize
}

// Append records one step.
// Both slices must hold NumEnvs*ActionSize components and
// are copied.
func (h *History) Append(predicted, executed []float64) {
	if len(predicted) != h.numEnvs*h.actionSize ||
		len(executed) != h.numEnvs*h.actionSize {
		panic("history: bad step size")
	}
	idx := (h.start + h.count) % h.Cap()
	if h.count == h.Cap() {
		h.start = (h.start + 1) % h.Cap()
	} else {
		h.count++
	}
	h.predicted[idx] = append([]float64{}, predicted...)
	h.executed[idx] = append([]float64{}, executed...)
}

// EnvRows returns the stored rows for one environment in
// oldest-to-newest order, one row per step.
//
// The rows alias the window's internal storage.
func (h *History) EnvRows(env int) (predicted, executed [][]float64) {
	off := env * h.actionSize
	for i := 0; i < h.count; i++ {
		step := (h.start + i) % h.Cap()
		predicted = append(predicted, h.predicted[step][off:off+h.actionSize])
		executed = append(executed, h.executed[step][off:off+h.actionSize])
	}
	return
}

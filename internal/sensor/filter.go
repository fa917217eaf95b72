package sensor

// Filter smooths converted readings with a fixed-capacity running average.
// Once the buffer fills, each new sample overwrites the oldest. Not safe for
// concurrent use; the probe is the only writer.
type Filter struct {
	samples []float64
	next    int
	count   int
}

// NewFilter creates a Filter averaging over the last capacity samples.
func NewFilter(capacity int) *Filter {
	if capacity < 1 {
		capacity = 1
	}
	return &Filter{samples: make([]float64, capacity)}
}

// Add records one converted sample.
func (f *Filter) Add(v float64) {
	f.samples[f.next] = v
	f.next = (f.next + 1) % len(f.samples)
	if f.count < len(f.samples) {
		f.count++
	}
}

// Average returns the mean of the samples held so far. Before the buffer
// fills it averages over however many samples exist; before the first
// sample it returns 0.
func (f *Filter) Average() float64 {
	if f.count == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < f.count; i++ {
		sum += f.samples[i]
	}
	return sum / float64(f.count)
}

// Count returns the number of samples currently held.
func (f *Filter) Count() int {
	return f.count
}

// Reset discards all samples.
func (f *Filter) Reset() {
	f.next = 0
	f.count = 0
}

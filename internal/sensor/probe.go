package sensor

import (
	"fmt"
	"time"
)

// DefaultSampleInterval is how often the probe pulls a fresh ADC sample.
const DefaultSampleInterval = 10 * time.Millisecond

// DefaultFilterSize is the averaging window of a probe's filter.
const DefaultFilterSize = 100

// Probe pumps raw readings from a CountReader through the converter into
// the filter on a fixed cadence. Time is injected; Tick gates itself by
// comparing against the last sample timestamp, so an irregular caller
// cannot make it oversample.
type Probe struct {
	reader     CountReader
	convert    Converter
	filter     *Filter
	interval   time.Duration
	lastSample time.Time
}

// NewProbe creates a Probe reading from r. The first sample is taken one
// interval after start.
func NewProbe(r CountReader, convert Converter, filterSize int, interval time.Duration, start time.Time) *Probe {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Probe{
		reader:     r,
		convert:    convert,
		filter:     NewFilter(filterSize),
		interval:   interval,
		lastSample: start,
	}
}

// Tick samples the reader if the sampling interval has elapsed.
// A failed hardware read leaves the filter untouched; the previous
// average keeps serving until the next successful sample.
func (p *Probe) Tick(now time.Time) error {
	if now.Sub(p.lastSample) < p.interval {
		return nil
	}
	code, err := p.reader.ReadSensor()
	if err != nil {
		return fmt.Errorf("read sensor: %w", err)
	}
	p.filter.Add(p.convert.Celsius(code))
	p.lastSample = now
	return nil
}

// Temperature returns the filtered temperature in degrees Celsius.
// It is 0 until the first sample lands.
func (p *Probe) Temperature() float64 {
	return p.filter.Average()
}

// SampleCount returns how many samples the filter currently holds.
func (p *Probe) SampleCount() int {
	return p.filter.Count()
}

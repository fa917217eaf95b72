// Package sensor turns raw ADC codes into filtered oven temperatures.
// The conversion and the averaging filter are pure; hardware access goes
// through the CountReader interface so tests can script readings.
package sensor

// CountReader reads one raw ADC sample from the temperature probe.
type CountReader interface {
	// ReadSensor returns the current ADC code.
	// Returns error if the hardware read fails (should not crash the process).
	ReadSensor() (int, error)
}

// Converter is the linear ADC-code-to-Celsius transform for the probe
// amplifier chain: code -> volts (against the ADC reference) -> degrees C
// (through the probe gain).
type Converter struct {
	RefVolts  float64 // ADC reference voltage
	FullScale int     // ADC full-scale code
	VoltsPerC float64 // probe amplifier gain
}

// DefaultConverter matches a 10-bit ADC on its 1.1 V internal reference
// reading a 5 mV/degC thermocouple amplifier.
var DefaultConverter = Converter{
	RefVolts:  1.1,
	FullScale: 1023,
	VoltsPerC: 5e-3,
}

// Celsius converts a raw ADC code to degrees Celsius.
func (c Converter) Celsius(code int) float64 {
	return float64(code) * c.RefVolts / float64(c.FullScale) / c.VoltsPerC
}

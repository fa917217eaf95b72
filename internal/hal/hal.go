// Package hal provides the oven hardware interface with hardware abstraction.
// The real implementation drives the heater SSR through the Linux GPIO
// character device and reads the thermistor ADC through IIO sysfs; a serial
// variant talks to an MCU oven shield instead. The fake implementation
// allows testing without hardware.
package hal

// Device is the raw oven hardware: one ADC channel behind the temperature
// probe and one heater switch.
type Device interface {
	// ReadSensor returns the current raw ADC count from the probe.
	ReadSensor() (int, error)

	// SetHeater drives the heater switch.
	SetHeater(on bool) error

	// Close releases hardware resources, leaving the heater off.
	Close() error
}

// Raspberry Pi defaults (BCM numbering, first IIO ADC channel).
const (
	PinSSR         = 18
	DefaultADCPath = "/sys/bus/iio/devices/iio:device0/in_voltage0_raw"
)

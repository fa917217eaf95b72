//go:build !linux

package hal

import "errors"

// RealDevice is not available on non-Linux platforms.
type RealDevice struct{}

// NewRealDevice returns an error on non-Linux platforms.
func NewRealDevice(ssrPin int, adcPath string) (*RealDevice, error) {
	return nil, errors.New("hal: not supported on this platform (requires Linux)")
}

// ReadSensor is not implemented on non-Linux platforms.
func (d *RealDevice) ReadSensor() (int, error) {
	return 0, errors.New("hal: not supported")
}

// SetHeater is not implemented on non-Linux platforms.
func (d *RealDevice) SetHeater(on bool) error {
	return errors.New("hal: not supported")
}

// Close is not implemented on non-Linux platforms.
func (d *RealDevice) Close() error {
	return nil
}

//go:build linux

package hal

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

// RealDevice is the Raspberry Pi oven hardware: the SSR hangs off a GPIO
// line and the thermistor ADC is exposed through IIO sysfs.
type RealDevice struct {
	chip    *gpiocdev.Chip
	ssr     *gpiocdev.Line
	adcPath string
}

// NewRealDevice requests the SSR line as an output driven low and keeps
// the ADC sysfs path for polling.
func NewRealDevice(ssrPin int, adcPath string) (*RealDevice, error) {
	if adcPath == "" {
		adcPath = DefaultADCPath
	}

	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	ssrLine, err := chip.RequestLine(ssrPin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request SSR pin %d: %w", ssrPin, err)
	}

	return &RealDevice{
		chip:    chip,
		ssr:     ssrLine,
		adcPath: adcPath,
	}, nil
}

// ReadSensor reads one raw ADC count from IIO sysfs.
func (d *RealDevice) ReadSensor() (int, error) {
	raw, err := os.ReadFile(d.adcPath)
	if err != nil {
		return 0, fmt.Errorf("read adc: %w", err)
	}

	text := strings.TrimSpace(string(raw))
	code, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("parse adc value %q: %w", text, err)
	}

	return code, nil
}

// SetHeater drives the SSR line.
func (d *RealDevice) SetHeater(on bool) error {
	value := 0
	if on {
		value = 1
	}
	if err := d.ssr.SetValue(value); err != nil {
		return fmt.Errorf("set SSR pin: %w", err)
	}
	return nil
}

// Close releases GPIO resources.
// Drives the SSR low and reconfigures the pin to input with pull-down
// (matching Pi boot defaults) before closing, so the heater stays off
// across process restarts and reboots.
func (d *RealDevice) Close() error {
	var errs []error

	if d.ssr != nil {
		if err := d.ssr.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("drop SSR pin: %w", err))
		}
		if err := d.ssr.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure SSR pin: %w", err))
		}
		if err := d.ssr.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close SSR pin: %w", err))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

package hal

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the oven shield firmware.
const DefaultBaudRate = 115200

// shieldMaxCount is the shield's 10-bit ADC full scale.
const shieldMaxCount = 1023

// SerialDevice talks to an MCU oven shield over a serial line. The shield
// streams probe readings as "t <count>" lines; the host switches the
// heater with "h 0" / "h 1" lines. A reader goroutine keeps the latest
// count so ReadSensor never blocks on the wire.
type SerialDevice struct {
	conn   serial.Port
	cancel context.CancelFunc

	mu        sync.Mutex
	lastCount int
	haveCount bool
	readErr   error
}

// OpenSerialDevice opens the shield on the named port and starts the
// reader. A zero baudRate selects DefaultBaudRate.
func OpenSerialDevice(port string, baudRate int) (*SerialDevice, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	conn, err := serial.Open(port, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", port, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &SerialDevice{conn: conn, cancel: cancel}
	go d.readLoop(ctx)

	return d, nil
}

// ReadSensor returns the most recent count streamed by the shield. It
// fails until the first line arrives, and permanently once the reader
// stops.
func (d *SerialDevice) ReadSensor() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readErr != nil {
		return 0, d.readErr
	}
	if !d.haveCount {
		return 0, fmt.Errorf("no sample received yet")
	}
	return d.lastCount, nil
}

// SetHeater sends the switch command to the shield.
func (d *SerialDevice) SetHeater(on bool) error {
	cmd := "h 0\n"
	if on {
		cmd = "h 1\n"
	}
	if _, err := d.conn.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("send heater command: %w", err)
	}
	return nil
}

// Close commands the heater off, stops the reader and closes the port.
func (d *SerialDevice) Close() error {
	if err := d.SetHeater(false); err != nil {
		log.Printf("serial: heater off on close: %v", err)
	}
	d.cancel()
	if err := d.conn.Close(); err != nil {
		return fmt.Errorf("close serial port: %w", err)
	}
	return nil
}

// readLoop consumes shield lines until the port closes or the context is
// cancelled. Malformed lines are logged and skipped.
func (d *SerialDevice) readLoop(ctx context.Context) {
	scanner := bufio.NewScanner(d.conn)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		count, err := parseSensorLine(line)
		if err != nil {
			log.Printf("serial: %v", err)
			continue
		}

		d.mu.Lock()
		d.lastCount = count
		d.haveCount = true
		d.mu.Unlock()
	}

	err := scanner.Err()
	if err == nil {
		err = fmt.Errorf("port closed")
	}

	d.mu.Lock()
	d.readErr = fmt.Errorf("serial reader stopped: %w", err)
	d.mu.Unlock()
}

// parseSensorLine extracts the ADC count from a "t <count>" shield line.
func parseSensorLine(line string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != "t" {
		return 0, fmt.Errorf("unexpected shield line %q", line)
	}

	count, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("bad count in shield line %q: %w", line, err)
	}
	if count < 0 || count > shieldMaxCount {
		return 0, fmt.Errorf("count out of range in shield line %q", line)
	}

	return count, nil
}

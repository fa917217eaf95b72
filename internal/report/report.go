// Package report delivers controller events to the outside world. Every
// reporter is fire-and-forget: delivery failures are logged, never
// returned, so the control loop cannot stall on I/O.
package report

import (
	"fmt"
	"io"
	"log"

	"github.com/sweeney/oven-controller/internal/control"
	"github.com/sweeney/oven-controller/internal/mqtt"
)

// Console writes framed event records to a writer, one per line. The
// leading '!' lets host-side tooling split records from ordinary log
// output sharing the stream.
type Console struct {
	w io.Writer
}

// NewConsole creates a Console reporter over w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Report writes one framed record.
func (c *Console) Report(e control.Event) {
	if _, err := fmt.Fprintf(c.w, "!%s\n", e.Record()); err != nil {
		log.Printf("report: console write: %v", err)
	}
}

// MQTT mirrors controller events to an MQTT publisher.
type MQTT struct {
	pub mqtt.Publisher
}

// NewMQTT creates an MQTT reporter over pub.
func NewMQTT(pub mqtt.Publisher) *MQTT {
	return &MQTT{pub: pub}
}

// Report publishes the event, logging failures.
func (m *MQTT) Report(e control.Event) {
	if err := m.pub.Publish(e); err != nil {
		log.Printf("report: mqtt publish: %v", err)
	}
}

// Multi fans an event out to several reporters in order.
func Multi(reporters ...control.Reporter) control.Reporter {
	return multi(reporters)
}

type multi []control.Reporter

func (m multi) Report(e control.Event) {
	for _, r := range m {
		r.Report(e)
	}
}

// Null discards all events.
type Null struct{}

// Report does nothing.
func (Null) Report(control.Event) {}

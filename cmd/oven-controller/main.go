// Command oven-controller drives a resistively heated oven through a
// multi-phase ramp/soak temperature profile, publishing status events to
// the console and MQTT and serving a small HTTP control surface.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/oven-controller/internal/config"
	"github.com/sweeney/oven-controller/internal/control"
	"github.com/sweeney/oven-controller/internal/hal"
	"github.com/sweeney/oven-controller/internal/mqtt"
	"github.com/sweeney/oven-controller/internal/oven"
	"github.com/sweeney/oven-controller/internal/pid"
	"github.com/sweeney/oven-controller/internal/profile"
	"github.com/sweeney/oven-controller/internal/report"
	"github.com/sweeney/oven-controller/internal/sensor"
	"github.com/sweeney/oven-controller/internal/status"
	"github.com/sweeney/oven-controller/internal/web"
)

func main() {
	configPath := flag.String("config", "/etc/oven-controller.yaml", "configuration file")
	poll := flag.Duration("poll", 5*time.Millisecond, "control loop tick interval")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	httpAddr := flag.String("http", "", `HTTP status address (overrides config, "off" disables)`)
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "MQTT status heartbeat interval (0 to disable)")
	autoStart := flag.Bool("start", false, "start the profile immediately")
	printTemp := flag.Bool("print-temp", false, "print the filtered oven temperature and exit")
	writeConfig := flag.Bool("write-config", false, "write the effective configuration to the -config path and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	switch *httpAddr {
	case "":
	case "off":
		cfg.Web.Addr = ""
	default:
		cfg.Web.Addr = *httpAddr
	}

	if *writeConfig {
		if err := cfg.Save(*configPath); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		log.Printf("wrote %s", *configPath)
		return
	}

	if err := run(cfg, *poll, *heartbeat, *autoStart, *printTemp); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config, poll, heartbeat time.Duration, autoStart, printTemp bool) error {
	// Initialize hardware
	dev, err := openDevice(cfg.Hardware)
	if err != nil {
		return fmt.Errorf("init hardware: %w", err)
	}
	defer dev.Close()

	now := time.Now()
	ovn := oven.New(dev, ovenConfig(cfg), now)

	// Print temperature mode
	if printTemp {
		return printTemperature(ovn, cfg)
	}

	// Reporters: framed records on stdout, mirrored to MQTT when a broker
	// is configured.
	reporters := []control.Reporter{report.NewConsole(os.Stdout)}

	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "" {
		real, err := mqtt.NewRealPublisher(cfg.MQTT.Broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer real.Close()
		publisher = real
		mqttStatus = real
		reporters = append(reporters, report.NewMQTT(real))
	}

	ctrl := control.New(ovn, report.Multi(reporters...), controlConfig(cfg), now)
	ctrl.SetTunings(pid.Tunings{Kp: cfg.PID.Kp, Ki: cfg.PID.Ki, Kd: cfg.PID.Kd})
	ctrl.SetPhases(phasesFromConfig(cfg.Profile), now)

	// Initialize status tracker (before STARTUP so a snapshot is available)
	tracker := status.NewTracker(now, status.Config{
		PollMs:      poll.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.Web.Addr,
	})

	// Publish startup event with a full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startup := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startup); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// Start HTTP status server; its handlers only enqueue commands, the
	// run loop applies them.
	commands := make(chan web.Command, 4)
	if cfg.Web.Addr != "" {
		srv := web.New(cfg.Web.Addr, tracker, commands)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.Web.Addr)
	}

	if autoStart {
		commands <- web.CommandStart
	}

	log.Printf("started: poll=%v phases=%d broker=%q http=%q heartbeat=%v",
		poll, len(cfg.Profile), cfg.MQTT.Broker, cfg.Web.Addr, heartbeat)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ctrl, ovn, publisher, mqttStatus, tracker, heartbeat, time.Now, ticker.C, sigCh, commands)
}

// runLoop owns the controller: ticks, HTTP commands and shutdown all run on
// this goroutine, so no controller state needs locking.
func runLoop(ctrl *control.Controller, ovn *oven.Oven, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal, commands <-chan web.Command) error {
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			t := now()

			// Safety first: force the heater off before anything else.
			ctrl.Stop(t)
			if err := ovn.Tick(t); err != nil {
				log.Printf("oven: %v", err)
			}

			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if publisher != nil {
				refreshTracker(tracker, ctrl, ovn, mqttStatus, t)
				snap := tracker.Snapshot()
				event := mqtt.SystemEvent{
					Timestamp:  t,
					Event:      "SHUTDOWN",
					Reason:     signalName,
					Retained:   true,
					RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
				}
				if err := publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			return nil

		case cmd := <-commands:
			t := now()
			switch cmd {
			case web.CommandStart:
				wasRunning := ctrl.Running()
				switch {
				case ctrl.Start(t) && !wasRunning:
					log.Printf("process started: %d phases", len(ctrl.Phases()))
				case wasRunning:
					log.Printf("start ignored: already running")
				default:
					log.Printf("start ignored: no phases configured")
				}
			case web.CommandStop:
				ctrl.Stop(t)
				log.Printf("process stopped")
			}
			refreshTracker(tracker, ctrl, ovn, mqttStatus, t)

		case <-tick:
			t := now()
			if err := ovn.Tick(t); err != nil {
				log.Printf("oven: %v", err)
				// Keep ticking: the controller sees the last good reading.
			}
			ctrl.Tick(t)

			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				refreshTracker(tracker, ctrl, ovn, mqttStatus, t)
				log.Printf("heartbeat: running=%v temp=%.2f duty=%.1f",
					ctrl.Running(), ovn.Temperature(), ovn.Duty())
				if publisher != nil {
					snap := tracker.Snapshot()
					hb := mqtt.SystemEvent{
						Timestamp:  t,
						Event:      "HEARTBEAT",
						RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
					}
					if err := publisher.PublishSystem(hb); err != nil {
						log.Printf("heartbeat publish error: %v", err)
					}
				}
			}

			refreshTracker(tracker, ctrl, ovn, mqttStatus, t)
		}
	}
}

// refreshTracker pushes the controller and oven view into the shared tracker
// read by the HTTP handlers and the heartbeat.
func refreshTracker(tracker *status.Tracker, ctrl *control.Controller, ovn *oven.Oven, mqttStatus mqtt.ConnectionStatus, t time.Time) {
	ps := status.ProcessState{
		Running:        ctrl.Running(),
		PhaseIndex:     ctrl.PhaseIndex(),
		PhaseCount:     len(ctrl.Phases()),
		Setpoint:       ctrl.Setpoint(),
		Slope:          ctrl.Slope(),
		Temperature:    ovn.Temperature(),
		Duty:           ovn.Duty(),
		HeaterOn:       ovn.HeaterLevel(),
		ProcessElapsed: ctrl.ProcessElapsed(t),
		PhaseElapsed:   ctrl.PhaseElapsed(t),
	}
	if p := ctrl.CurrentPhase(); p != nil {
		ps.PhaseName = p.Name
	}
	tracker.Update(ps)
	if mqttStatus != nil {
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}
}

// openDevice selects the hardware backend named by the config.
func openDevice(hw config.HardwareConfig) (hal.Device, error) {
	switch hw.Driver {
	case "gpio":
		return hal.NewRealDevice(hw.SSRPin, hw.ADCPath)
	case "serial":
		return hal.OpenSerialDevice(hw.SerialPort, hw.BaudRate)
	default:
		return nil, fmt.Errorf("unknown hardware driver %q", hw.Driver)
	}
}

// printTemperature warms the probe filter for one second and prints the
// filtered reading.
func printTemperature(ovn *oven.Oven, cfg *config.Config) error {
	interval := time.Duration(cfg.Loop.SampleMs) * time.Millisecond
	if interval <= 0 {
		interval = sensor.DefaultSampleInterval
	}

	var lastErr error
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if err := ovn.Tick(time.Now()); err != nil {
			lastErr = err // serial shields need a moment before the first line
		}
		time.Sleep(interval)
	}

	if ovn.SampleCount() == 0 {
		if lastErr != nil {
			return fmt.Errorf("no samples after one second: %w", lastErr)
		}
		return errors.New("no samples after one second")
	}
	fmt.Printf("%.2f\n", ovn.Temperature())
	return nil
}

func ovenConfig(cfg *config.Config) oven.Config {
	return oven.Config{
		Converter: sensor.Converter{
			RefVolts:  cfg.Hardware.RefVolts,
			FullScale: cfg.Hardware.FullScale,
			VoltsPerC: cfg.Hardware.VoltsPerC,
		},
		FilterSize:     cfg.Loop.FilterSize,
		SampleInterval: time.Duration(cfg.Loop.SampleMs) * time.Millisecond,
		HeaterPeriod:   time.Duration(cfg.Loop.HeaterMs) * time.Millisecond,
	}
}

func controlConfig(cfg *config.Config) control.Config {
	return control.Config{
		PIDPeriod:      time.Duration(cfg.Loop.PIDMs) * time.Millisecond,
		ProfilePeriod:  time.Duration(cfg.Loop.ProfileMs) * time.Millisecond,
		IdleTempPeriod: time.Duration(cfg.Loop.IdleTempMs) * time.Millisecond,
		MaxSlope:       cfg.Loop.MaxSlope,
		IdleTempLog:    cfg.Loop.IdleTempLog,
	}
}

func phasesFromConfig(pcs []config.PhaseConfig) []profile.Phase {
	if len(pcs) == 0 {
		return nil
	}
	phases := make([]profile.Phase, len(pcs))
	for i, pc := range pcs {
		phases[i] = profile.Phase{
			Name:     pc.Name,
			EndTemp:  pc.EndTemp,
			Slope:    pc.Slope,
			Duration: pc.Duration,
		}
	}
	return phases
}

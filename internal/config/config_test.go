package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oven.yaml")
	data := `
hardware:
  driver: serial
  serial_port: /dev/ttyUSB1
loop:
  filter_size: 10
  idle_temp_log: true
pid:
  kp: 2
  ki: 0.5
  kd: 0.1
profile:
  - name: preheat
    end_temp: 150
  - name: soak
    end_temp: 150
    duration: 90
mqtt:
  broker: tcp://broker:1883
web:
  addr: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "serial", cfg.Hardware.Driver)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Hardware.SerialPort)
	assert.Equal(t, 115200, cfg.Hardware.BaudRate) // untouched fields keep defaults
	assert.Equal(t, 10, cfg.Loop.FilterSize)
	assert.Equal(t, 250, cfg.Loop.PIDMs)
	assert.True(t, cfg.Loop.IdleTempLog)
	assert.Equal(t, 2.0, cfg.PID.Kp)
	assert.Equal(t, 0.5, cfg.PID.Ki)
	require.Len(t, cfg.Profile, 2)
	assert.Equal(t, PhaseConfig{Name: "preheat", EndTemp: 150}, cfg.Profile[0])
	assert.Equal(t, PhaseConfig{Name: "soak", EndTemp: 150, Duration: 90}, cfg.Profile[1])
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, ":9090", cfg.Web.Addr)
}

func TestLoadRestoresZeroedRequiredFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oven.yaml")
	data := `
hardware:
  driver: ""
  ref_volts: 0
loop:
  sample_ms: 0
  max_slope: 0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Hardware.Driver, cfg.Hardware.Driver)
	assert.Equal(t, def.Hardware.RefVolts, cfg.Hardware.RefVolts)
	assert.Equal(t, def.Loop.SampleMs, cfg.Loop.SampleMs)
	assert.Equal(t, def.Loop.MaxSlope, cfg.Loop.MaxSlope)
}

func TestLoadKeepsMeaningfulZeroes(t *testing.T) {
	// Gains, profile, broker and web address may legitimately be zero;
	// Load must not "repair" them.
	path := filepath.Join(t.TempDir(), "oven.yaml")
	data := `
pid:
  kp: 0
  ki: 0
  kd: 0
web:
  addr: ""
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Zero(t, cfg.PID.Kp)
	assert.Zero(t, cfg.PID.Ki)
	assert.Zero(t, cfg.PID.Kd)
	assert.Empty(t, cfg.Profile)
	assert.Empty(t, cfg.MQTT.Broker)
	assert.Empty(t, cfg.Web.Addr)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oven.yaml")
	require.NoError(t, os.WriteFile(path, []byte("loop: ["), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oven.yaml")

	cfg := Default()
	cfg.PID = PIDConfig{Kp: 4, Ki: 0.2, Kd: 1}
	cfg.Profile = []PhaseConfig{
		{Name: "bake", EndTemp: 110, Slope: 1.5, Duration: 600},
	}
	cfg.MQTT.Broker = "tcp://localhost:1883"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

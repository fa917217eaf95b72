package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/oven-controller/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"celsius": func(v float64) string {
		return fmt.Sprintf("%.2f °C", v)
	},
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f %%", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Oven Controller</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
button { font-family: monospace; font-size: 1em; padding: 6px 18px; margin-right: 8px; }
</style>
</head>
<body>
<h1>Oven Controller</h1>

<h2>Process</h2>
<table>
<tr><th>State</th><td class="{{if .Process.Running}}on{{else}}off{{end}}">{{if .Process.Running}}RUNNING{{else}}IDLE{{end}}</td></tr>
{{if .Process.Running}}<tr><th>Phase</th><td>{{.Process.PhaseName}} ({{.Process.PhaseIndex}}/{{.Process.PhaseCount}})</td></tr>
<tr><th>Setpoint</th><td>{{celsius .Process.Setpoint}}</td></tr>
<tr><th>Slope</th><td>{{printf "%.2f" .Process.Slope}} °C/s</td></tr>{{end}}
<tr><th>Temperature</th><td>{{celsius .Process.Temperature}}</td></tr>
<tr><th>Duty</th><td>{{percent .Process.Duty}}</td></tr>
<tr><th>Heater</th><td class="{{if .Process.HeaterOn}}on{{else}}off{{end}}">{{if .Process.HeaterOn}}ON{{else}}OFF{{end}}</td></tr>
{{if .Process.Running}}<tr><th>Process time</th><td>{{uptime .Process.ProcessElapsed}}</td></tr>
<tr><th>Phase time</th><td>{{uptime .Process.PhaseElapsed}}</td></tr>{{end}}
</table>

<p>
<button type="button" onclick="cmd('start')">Start</button>
<button type="button" onclick="cmd('stop')">Stop</button>
</p>

<h2>Connectivity</h2>
<table>
{{if .Config.Broker}}<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>{{else}}<tr><th>MQTT</th><td class="off">disabled</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
function cmd(c) {
  fetch("/api/" + c, {method: "POST"}).then(function() { location.reload(); });
}
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}

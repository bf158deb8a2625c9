package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Palette shared with the PNG charts.
const (
	colorPrimary    = "#00D9FF"
	colorSecondary  = "#FF6B6B"
	colorTertiary   = "#4ECDC4"
	colorQuaternary = "#FFE66D"
	colorAccent     = "#C44DFF"
	colorSuccess    = "#7AE582"
	colorBackground = "#1a1a2e"
	colorSurface    = "#16213e"
	colorText       = "#eaeaea"
)

var loadColors = []string{
	colorPrimary,
	colorSecondary,
	colorTertiary,
	colorQuaternary,
	colorAccent,
	colorSuccess,
}

func loadColor(i int) string {
	return loadColors[i%len(loadColors)]
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"f0":       func(v float64) string { return fmt.Sprintf("%.0f", v) },
		"f1":       func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"f2":       func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"f3":       func(v float64) string { return fmt.Sprintf("%.3f", v) },
		"mul":      func(a, b float64) float64 { return a * b },
		"toJSON":   toJSON,
		"effClass": efficiencyClass,
		"errClass": errorClass,
	}
}

// toJSON embeds a value as a JS literal inside a template.
func toJSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(b)
}

func efficiencyClass(pct float64) string {
	switch {
	case pct >= 90:
		return "metric-good"
	case pct >= 70:
		return "metric-warn"
	default:
		return "metric-bad"
	}
}

func errorClass(rate float64) string {
	switch {
	case rate < 1:
		return "metric-good"
	case rate < 5:
		return "metric-warn"
	default:
		return "metric-bad"
	}
}

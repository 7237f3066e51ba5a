// Package display renders scheduler events and progress snapshots to the
// terminal: a live progress line while measuring and a statistics table per
// completed target.
package display

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mbench/internal/backend"
)

// Formatter turns kinds and sample values into display strings. Values of
// loop-scaled kinds are divided by the configured loop count; the name
// column width is computed once from the full kind set.
type Formatter struct {
	loops     int
	nameWidth int
}

func NewFormatter(loops int) *Formatter {
	f := &Formatter{loops: loops}
	for _, k := range backend.KnownKinds() {
		if w := len(f.Name(k)); w > f.nameWidth {
			f.nameWidth = w
		}
	}
	return f
}

// NameWidth is the width of the report's name column.
func (f *Formatter) NameWidth() int { return f.nameWidth }

// Name returns the report label, marking per-iteration values with the
// loop divisor ("User time/3").
func (f *Formatter) Name(k backend.Kind) string {
	if f.loops > 1 && k.LoopScaled() {
		return fmt.Sprintf("%s/%d", k.Name(), f.loops)
	}
	return k.Name()
}

// Value formats one sample, dividing loop-scaled kinds down to a
// per-iteration value.
func (f *Formatter) Value(k backend.Kind, v float64) string {
	if f.loops > 1 && k.LoopScaled() {
		v /= float64(f.loops)
	}
	return f.Unscaled(k, v)
}

// Unscaled formats one sample without loop division. The progress line uses
// it for the actual remaining time.
func (f *Formatter) Unscaled(k backend.Kind, v float64) string {
	switch {
	case k.TimeValued():
		return formatSeconds(v)
	case k.ByteValued():
		return formatBytes(v)
	case k == backend.CPUPercent:
		return formatFloat(v) + " %"
	default:
		return formatCount(v)
	}
}

func formatSeconds(v float64) string {
	switch {
	case v < 1.0:
		return formatFloat(roundTo(v*1000, 3)) + " ms"
	case v < 60.0:
		return formatFloat(roundTo(v, 3)) + " sec"
	case v < 60.0*60.0:
		min := math.Floor(v / 60.0)
		return fmt.Sprintf("%02d:%s sec", int(min), formatFloat(roundTo(math.Mod(v, 60.0), 3)))
	default:
		hour := math.Floor(v / 60.0 / 60.0)
		min := math.Floor((v - hour*60.0*60.0) / 60.0)
		return fmt.Sprintf("%02d:%02d:%s sec", int(hour), int(min), formatFloat(roundTo(math.Mod(v, 60.0), 3)))
	}
}

func formatBytes(v float64) string {
	const (
		kb = 1024.0
		mb = 1024.0 * kb
		gb = 1024.0 * mb
		tb = 1024.0 * gb
	)
	switch {
	case v < kb:
		return formatFloat(roundTo(v, 3)) + " byte"
	case v < mb:
		return formatFloat(roundTo(v/kb, 3)) + " KiB"
	case v < gb:
		return formatFloat(roundTo(v/mb, 3)) + " MiB"
	case v < tb:
		return formatFloat(roundTo(v/gb, 3)) + " GiB"
	default:
		return formatFloat(roundTo(v/tb, 3)) + " TiB"
	}
}

// formatCount renders a count with thousands separators, keeping up to
// three fractional digits when present.
func formatCount(v float64) string {
	whole := int64(math.Floor(v))
	dec := formatFloat(roundTo(v-float64(whole), 3))
	if dec == "0" {
		return groupInt(whole)
	}
	return groupInt(whole) + dec[1:]
}

func groupInt(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundTo(v float64, precision int) float64 {
	rank := math.Pow(10, float64(precision))
	return math.Round(v*rank) / rank
}

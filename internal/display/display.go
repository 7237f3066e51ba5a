package display

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"golang.org/x/term"

	"mbench/internal/backend"
	"mbench/internal/scheduler"
	"mbench/internal/stats"
)

// DefaultTick is the progress refresh rate.
const DefaultTick = 100 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Renderer consumes scheduler events and draws them to the terminal. It is
// the only goroutine writing to stdout while a benchmark runs.
type Renderer struct {
	out  io.Writer
	errw io.Writer
	fmtr *Formatter
	tick time.Duration

	isTTY bool
	eol   string

	measuring   bool
	progressive bool
	continued   bool
	spin        int
}

// NewRenderer builds a renderer. rawMode selects CR/LF line endings, which
// the terminal needs while its line discipline is disabled.
func NewRenderer(fmtr *Formatter, rawMode bool) *Renderer {
	eol := "\n"
	if rawMode {
		eol = "\r\n"
	}
	return &Renderer{
		out:   color.Output,
		errw:  color.Error,
		fmtr:  fmtr,
		tick:  DefaultTick,
		isTTY: term.IsTerminal(int(os.Stdout.Fd())),
		eol:   eol,
	}
}

// Run consumes events until the channel closes, redrawing the progress line
// on every tick in between.
func (r *Renderer) Run(events <-chan scheduler.Event, view *scheduler.ViewModel) {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				r.clearProgress()
				return
			}
			r.handle(ev, view)
		case <-ticker.C:
			if r.measuring {
				r.drawProgress(view)
				r.spin++
			}
		}
	}
}

func (r *Renderer) handle(ev scheduler.Event, view *scheduler.ViewModel) {
	switch ev.Type {
	case scheduler.EventWarning:
		r.clearProgress()
		color.New(color.FgYellow, color.Bold).Fprintf(r.errw, "[WARNING]: %s%s", ev.Text, r.eol)
	case scheduler.EventSectionHeader:
		r.clearProgress()
		if r.continued {
			fmt.Fprint(r.out, r.eol)
		}
		color.New(color.FgCyan, color.Bold).Fprintf(r.out, "%s%s", ev.Text, r.eol)
		r.continued = true
	case scheduler.EventMeasureStarted:
		r.measuring = true
	case scheduler.EventFinalReport:
		r.measuring = false
		r.clearProgress()
		r.printReports(ev.Reports)
	}
}

// drawProgress repaints the single status line in place.
func (r *Renderer) drawProgress(view *scheduler.ViewModel) {
	if !r.isTTY {
		return
	}
	run, total, reports := view.Snapshot()
	if total == 0 {
		return
	}

	label := "Measuring..."
	samples := backend.Samples(reports, backend.WallTime)
	if len(samples) > 0 {
		st := stats.New(samples)
		if st.Mean > 0 {
			label = fmt.Sprintf("Mean %s, so about %s left",
				r.fmtr.Value(backend.WallTime, st.Mean),
				// actual time left, not divided by loops
				r.fmtr.Unscaled(backend.WallTime, st.Mean*float64(total-run)))
		}
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	head := fmt.Sprintf("%s %3d/%-3d ", spinnerFrames[r.spin%len(spinnerFrames)], run, total)
	barWidth := width - utf8.RuneCountInString(head) - utf8.RuneCountInString(label) - 3
	bar := ""
	if barWidth > 0 {
		filled := barWidth * run / total
		bar = "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "] "
	}
	line := head + bar + label
	if utf8.RuneCountInString(line) > width {
		line = string([]rune(line)[:width])
	}
	fmt.Fprintf(r.out, "\r\033[K%s", color.CyanString(line))
	r.progressive = true
}

func (r *Renderer) clearProgress() {
	if r.progressive {
		fmt.Fprint(r.out, "\r\033[K")
		r.progressive = false
	}
}

const meanWidth = 13

// printReports writes the statistics table for one completed target.
func (r *Renderer) printReports(reports []backend.Report) {
	kinds := append(backend.KnownKinds(), backend.UnknownKindsIn(reports)...)
	nameWidth := r.fmtr.NameWidth()

	var lines []string
	existError := false
	for _, k := range kinds {
		samples := backend.Samples(reports, k)
		switch k {
		case backend.WallTime, backend.UserTime, backend.SysTime:
			// always shown
		default:
			// unmeasured or unmaintained items read all zero; skip them
			if len(samples) == 0 || allZero(samples) {
				continue
			}
		}
		if k == backend.ExitStatus {
			existError = true
			r.printExitStatus(samples)
			continue
		}
		st := stats.New(samples)
		lines = append(lines, fmt.Sprintf("%-*s:%*s ± %s (%.1f %%) [%s ≦ %s ≦ %s] / %d",
			nameWidth, r.fmtr.Name(k),
			meanWidth, r.fmtr.Value(k, st.Mean),
			r.fmtr.Value(k, st.Stdev),
			st.CV(),
			r.fmtr.Value(k, st.Min()),
			r.fmtr.Value(k, st.Median()),
			r.fmtr.Value(k, st.Max()),
			st.Count()))
		if st.HasOutliers() {
			lines = append(lines, fmt.Sprintf("%s:%*s ± %s (%.1f %%) [%s ≦ %s ≦ %s] / %d(-%d)",
				center("└─Excluding Outlier", nameWidth),
				meanWidth, r.fmtr.Value(k, st.MeanExcludingOutliers),
				r.fmtr.Value(k, st.StdevExcludingOutliers),
				st.CVExcludingOutliers(),
				r.fmtr.Value(k, st.MinExcludingOutliers()),
				r.fmtr.Value(k, st.MedianExcludingOutliers()),
				r.fmtr.Value(k, st.MaxExcludingOutliers()),
				st.CountExcludingOutliers(),
				st.OutlierCount))
		}
	}

	legend := color.New(color.FgGreen)
	if existError {
		legend = color.New(color.FgRed)
	}
	legend.Fprintf(r.out, "%s:%*s ± σ (Coefficient of variation %%) [Min ≦ Median ≦ Max] / Valid count%s",
		center("LEGEND", nameWidth), meanWidth, "Mean", r.eol)

	fmt.Fprint(r.out, strings.Join(lines, r.eol)+r.eol)
}

// printExitStatus summarizes failures as a code histogram. It is only
// reached when at least one run exited non-zero.
func (r *Renderer) printExitStatus(samples []float64) {
	histogram := map[int]int{}
	for _, v := range samples {
		histogram[int(v)]++
	}
	success := histogram[0]
	delete(histogram, 0)
	failure := len(samples) - success

	codes := make([]int, 0, len(histogram))
	for code := range histogram {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%d× %d", code, histogram[code]))
	}

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	red.Fprintf(r.out, "%*s: ", r.fmtr.NameWidth(), r.fmtr.Name(backend.ExitStatus))
	green.Fprintf(r.out, "Success %d times. ", success)
	red.Fprintf(r.out, "Failure %d times. [(code× times) %s]%s", failure, strings.Join(parts, ", "), r.eol)
}

func allZero(samples []float64) bool {
	for _, v := range samples {
		if v != 0 {
			return false
		}
	}
	return true
}

// center pads s with spaces to width, favoring the right side like the
// report's legend row expects.
func center(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

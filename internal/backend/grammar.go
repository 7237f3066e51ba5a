package backend

import (
	"regexp"
	"strconv"
	"strings"
)

// A parseFunc turns one raw diagnostic stream into a report. Each backend
// family carries its own grammar.
type parseFunc func(stderr string) Report

var (
	// bash builtin: "real\t0m1.007s"
	builtinRe = regexp.MustCompile(`(?P<name>\w+)\s+(?:(?P<min>\d+)m)?(?P<sec>[0-9.]+)s?`)

	// BSD time -l: "1277952  maximum resident set size" plus the
	// "1.00 real 0.10 user 0.01 sys" triplet on the first line.
	bsdRe = regexp.MustCompile(`(?m)(?P<val>\d+) +(?P<name>[\w ]+?)$|(?P<sec>[\d.]+) (?P<name2>\w+)`)

	// GNU time -v: "User time (seconds): 0.01", wall clock as h:mm:ss or m:ss.
	gnuRe = regexp.MustCompile(`(?P<name>[\w ():/]+): ((?:(?P<hour>\d+):)?(?P<min>\d+):(?P<sec>[\d.]+)|(?P<val>[\d.]+))`)
)

// capture extracts the label and numeric value from one regex match.
// A "sec" group makes the value a duration assembled from the optional
// hour/min groups; otherwise "val" is taken verbatim.
func capture(re *regexp.Regexp, match []string) (string, float64) {
	group := func(name string) string {
		for i, n := range re.SubexpNames() {
			if n == name && i < len(match) {
				return match[i]
			}
		}
		return ""
	}

	var v float64
	if sec := group("sec"); sec != "" {
		hour, _ := strconv.ParseFloat(group("hour"), 64)
		min, _ := strconv.ParseFloat(group("min"), 64)
		s, _ := strconv.ParseFloat(sec, 64)
		v = hour*60*60 + min*60 + s
	} else {
		v, _ = strconv.ParseFloat(group("val"), 64)
	}

	name := group("name")
	if name == "" {
		name = group("name2")
	}
	return strings.TrimSpace(name), v
}

func parseBuiltin(stderr string) Report {
	report := Report{}
	for _, match := range builtinRe.FindAllStringSubmatch(stderr, -1) {
		name, v := capture(builtinRe, match)
		switch name {
		case "real":
			report[WallTime] = v
		case "user":
			report[UserTime] = v
		case "sys":
			report[SysTime] = v
		default:
			report[Unknown(name)] = v
		}
	}
	return report
}

func parseBSD(stderr string) Report {
	report := Report{}
	for _, match := range bsdRe.FindAllStringSubmatch(stderr, -1) {
		name, v := capture(bsdRe, match)
		switch name {
		case "real":
			report[WallTime] = v
		case "user":
			report[UserTime] = v
		case "sys":
			report[SysTime] = v
		case "maximum resident set size":
			report[MaxResidentBytes] = v
		case "average shared memory size":
			report[AvgSharedBytes] = v
		case "average unshared data size":
			report[AvgDataBytes] = v
		case "average unshared stack size":
			report[AvgStackBytes] = v
		case "page reclaims":
			report[MinorPageFaults] = v
		case "page faults":
			report[MajorPageFaults] = v
		case "swaps":
			report[Swaps] = v
		case "block input operations":
			report[BlockInputs] = v
		case "block output operations":
			report[BlockOutputs] = v
		case "messages sent":
			report[MessagesSent] = v
		case "messages received":
			report[MessagesReceived] = v
		case "signals received":
			report[SignalsReceived] = v
		case "voluntary context switches":
			report[VoluntaryCtxSwitches] = v
		case "involuntary context switches":
			report[InvoluntaryCtxSwitches] = v
		case "instructions retired":
			report[InstructionsRetired] = v
		case "cycles elapsed":
			report[CyclesElapsed] = v
		case "peak memory footprint":
			report[PeakMemoryBytes] = v
		default:
			report[Unknown(name)] = v
		}
	}
	return report
}

func parseGNU(stderr string) Report {
	const kb = 1024.0
	report := Report{}
	for _, match := range gnuRe.FindAllStringSubmatch(stderr, -1) {
		name, v := capture(gnuRe, match)
		switch name {
		case "Command being timed":
			// restates the command string
		case "Exit status":
			// the real exit code comes from the OS, not this line
		case "User time (seconds)":
			report[UserTime] = v
		case "System time (seconds)":
			report[SysTime] = v
		case "Percent of CPU this job got":
			report[CPUPercent] = v
		case "Elapsed (wall clock) time (h:mm:ss or m:ss)":
			report[WallTime] = v
		case "Average shared text size (kbytes)":
			report[AvgSharedBytes] = v * kb
		case "Average unshared data size (kbytes)":
			report[AvgDataBytes] = v * kb
		case "Average stack size (kbytes)":
			report[AvgStackBytes] = v * kb
		case "Average total size (kbytes)":
			report[AvgTotalBytes] = v * kb
		case "Maximum resident set size (kbytes)":
			report[MaxResidentBytes] = v * kb
		case "Average resident set size (kbytes)":
			report[AvgResidentBytes] = v * kb
		case "Major (requiring I/O) page faults":
			report[MajorPageFaults] = v
		case "Minor (reclaiming a frame) page faults":
			report[MinorPageFaults] = v
		case "Voluntary context switches":
			report[VoluntaryCtxSwitches] = v
		case "Involuntary context switches":
			report[InvoluntaryCtxSwitches] = v
		case "Swaps":
			report[Swaps] = v
		case "File system inputs":
			report[BlockInputs] = v
		case "File system outputs":
			report[BlockOutputs] = v
		case "Socket messages sent":
			report[MessagesSent] = v
		case "Socket messages received":
			report[MessagesReceived] = v
		case "Signals delivered":
			report[SignalsReceived] = v
		case "Page size (bytes)":
			report[PageSizeBytes] = v
		default:
			report[Unknown(name)] = v
		}
	}
	return report
}

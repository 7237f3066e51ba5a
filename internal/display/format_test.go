package display

import (
	"strings"
	"testing"

	"mbench/internal/backend"
)

func TestFormatSeconds(t *testing.T) {
	f := NewFormatter(1)
	cases := []struct {
		v    float64
		want string
	}{
		{0.123456789, "123.457 ms"},
		{12.3456789, "12.346 sec"},
		{60.0 + 23.456789, "01:23.457 sec"},
		{59.0*60.0 + 23.456789, "59:23.457 sec"},
		{123.0*60.0*60.0 + 4.0*60.0 + 56.789, "123:04:56.789 sec"},
	}
	for _, c := range cases {
		if got := f.Value(backend.WallTime, c.v); got != c.want {
			t.Errorf("Value(WallTime, %v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	f := NewFormatter(1)
	const k = 1024.0
	cases := []struct {
		v    float64
		want string
	}{
		{123.456789, "123.457 byte"},
		{12.3456789 * k, "12.346 KiB"},
		{123.456789 * k * k, "123.457 MiB"},
		{123.456789 * k * k * k, "123.457 GiB"},
		{1234.56789 * k * k * k * k, "1234.568 TiB"},
	}
	for _, c := range cases {
		if got := f.Value(backend.MaxResidentBytes, c.v); got != c.want {
			t.Errorf("Value(MaxResidentBytes, %v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	f := NewFormatter(1)
	cases := []struct {
		v    float64
		want string
	}{
		{123.456789, "123.457"},
		{0, "0"},
		{1234567, "1,234,567"},
		{1234567.89, "1,234,567.89"},
		{1136018, "1,136,018"},
	}
	for _, c := range cases {
		if got := f.Value(backend.CyclesElapsed, c.v); got != c.want {
			t.Errorf("Value(CyclesElapsed, %v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestFormatCPUPercent(t *testing.T) {
	f := NewFormatter(1)
	if got := f.Value(backend.CPUPercent, 3); got != "3 %" {
		t.Errorf("Value(CPUPercent, 3) = %q, want \"3 %%\"", got)
	}
}

func TestLoopScaling(t *testing.T) {
	f := NewFormatter(3)
	if got := f.Name(backend.UserTime); got != "User time/3" {
		t.Errorf("Name = %q, want \"User time/3\"", got)
	}
	if got := f.Name(backend.MaxResidentBytes); got != "Maximum resident set size" {
		t.Errorf("Name = %q, unscaled kinds keep their plain label", got)
	}
	// 3 seconds over 3 iterations is 1 second each
	if got := f.Value(backend.UserTime, 3.0); got != "1 sec" {
		t.Errorf("Value = %q, want \"1 sec\"", got)
	}
	// the raw aggregate stays undivided
	if got := f.Unscaled(backend.UserTime, 3.0); got != "3 sec" {
		t.Errorf("Unscaled = %q, want \"3 sec\"", got)
	}
	if got := f.Value(backend.MaxResidentBytes, 3*1024.0); got != "3 KiB" {
		t.Errorf("Value = %q, byte kinds must not be divided", got)
	}
}

func TestNameWidthCoversScaledNames(t *testing.T) {
	plain := NewFormatter(1)
	scaled := NewFormatter(10)
	if scaled.NameWidth() <= plain.NameWidth() {
		t.Errorf("width %d should grow for the loop suffix (plain %d)", scaled.NameWidth(), plain.NameWidth())
	}
	for _, k := range backend.KnownKinds() {
		if len(scaled.Name(k)) > scaled.NameWidth() {
			t.Errorf("name %q exceeds the column width", scaled.Name(k))
		}
	}
}

func TestCenter(t *testing.T) {
	if got := center("ab", 5); got != " ab  " {
		t.Errorf("center = %q", got)
	}
	if got := center("LEGEND", 3); got != "LEGEND" {
		t.Errorf("center must not truncate: %q", got)
	}
	if got := center("└─Excluding Outlier", 21); !strings.Contains(got, "└─Excluding Outlier") || len([]rune(got)) != 21 {
		t.Errorf("center = %q", got)
	}
}

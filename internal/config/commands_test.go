package config

import (
	"reflect"
	"testing"
)

func normalize(args ...string) []string {
	c := Default()
	c.Commands = args
	return c.NormalizedCommands()
}

func TestNormalizedCommandsSingle(t *testing.T) {
	got := normalize("cmd1")
	want := []string{"cmd1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizedCommandsArgsAreQuoted(t *testing.T) {
	got := normalize("cmd1", "arg1")
	want := []string{"cmd1 'arg1'"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizedCommandsDelimiter(t *testing.T) {
	got := normalize("cmd1", "--", "cmd2")
	want := []string{"cmd1", "cmd2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizedCommandsPreQuotedStandsAlone(t *testing.T) {
	got := normalize("cmd1 arg1", "cmd2")
	want := []string{"cmd1 arg1", "cmd2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizedCommandsFlagsNotQuoted(t *testing.T) {
	got := normalize("cmd1", "-f", "--long", "arg")
	want := []string{"cmd1 -f --long 'arg'"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizedCommandsKeepsExistingQuotes(t *testing.T) {
	got := normalize("cmd1", `"already quoted"`, "'also quoted'")
	want := []string{`cmd1 "already quoted" 'also quoted'`}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizedCommandsEscapesSingleQuote(t *testing.T) {
	got := normalize("echo", "it's")
	want := []string{`echo 'it\'s'`}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizedCommandsCombination(t *testing.T) {
	got := normalize("cmd1", "arg1", "--", "cmd2 arg2", "cmd3", "--", "cmd4", "arg4a", "arg4b")
	want := []string{"cmd1 'arg1'", "cmd2 arg2", "cmd3", "cmd4 'arg4a' 'arg4b'"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizedCommandsEmpty(t *testing.T) {
	if got := normalize(); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestNormalizedCommandsTrailingDelimiter(t *testing.T) {
	got := normalize("cmd1", "--")
	want := []string{"cmd1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

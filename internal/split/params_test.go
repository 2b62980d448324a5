package split

import (
	"slices"
	"strings"
	"testing"
)

func TestDefaults_Args(t *testing.T) {
	got := Defaults().Args()
	want := []string{"0.000036", "800", "400", "200", "HEYTICO.wav", "./output"}
	if !slices.Equal(got, want) {
		t.Errorf("Defaults().Args() = %q, want %q", got, want)
	}
}

func TestArgs_Length(t *testing.T) {
	if got := len(Params{}.Args()); got != NumArgs {
		t.Errorf("len(Args()) = %d, want %d", got, NumArgs)
	}
}

func TestArgs_PathsVerbatim(t *testing.T) {
	p := Defaults()
	p.Input = "dir with space/take 1.wav"
	p.OutputDir = "-out"
	args := p.Args()
	if args[4] != p.Input {
		t.Errorf("args[4] = %q, want %q", args[4], p.Input)
	}
	if args[5] != p.OutputDir {
		t.Errorf("args[5] = %q, want %q", args[5], p.OutputDir)
	}
}

func TestArgs_FloatFormatting(t *testing.T) {
	p := Params{Threshold: 500}
	if got := p.Args()[0]; got != "500" {
		t.Errorf("Args()[0] = %q, want %q", got, "500")
	}
	p.Threshold = 0.5
	if got := p.Args()[0]; got != "0.5" {
		t.Errorf("Args()[0] = %q, want %q", got, "0.5")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	want := Defaults()
	got, err := Parse(want.Args())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != want {
		t.Errorf("Parse(Args()) = %+v, want %+v", got, want)
	}
}

func TestParse_TrimsPaths(t *testing.T) {
	got, err := Parse([]string{"1", "2", "3", "4", " in.wav ", " out "})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Input != "in.wav" || got.OutputDir != "out" {
		t.Errorf("paths = %q, %q, want %q, %q", got.Input, got.OutputDir, "in.wav", "out")
	}
}

func TestParse_WrongArity(t *testing.T) {
	_, err := Parse([]string{"1", "2"})
	if err == nil {
		t.Fatal("expected error for wrong arity")
	}
	if !strings.Contains(err.Error(), "got 2") {
		t.Errorf("error = %q, want to mention the count", err)
	}
}

func TestParse_BadThreshold(t *testing.T) {
	_, err := Parse([]string{"loud", "800", "400", "200", "a.wav", "out"})
	if err == nil {
		t.Fatal("expected error for non-numeric threshold")
	}
	if !strings.Contains(err.Error(), "argument 1") {
		t.Errorf("error = %q, want to name argument 1", err)
	}
}

func TestParse_BadInteger(t *testing.T) {
	_, err := Parse([]string{"0.1", "800", "4.5", "200", "a.wav", "out"})
	if err == nil {
		t.Fatal("expected error for fractional span margin")
	}
	if !strings.Contains(err.Error(), "argument 3 (span margin)") {
		t.Errorf("error = %q, want to name argument 3", err)
	}
}

func TestString(t *testing.T) {
	got := Defaults().String()
	want := "0.000036 800 400 200 HEYTICO.wav ./output"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

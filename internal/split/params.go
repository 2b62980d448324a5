// Package split describes the positional command-line contract of the
// splitwavwin executable.
package split

import (
	"fmt"
	"strconv"
	"strings"
)

// NumArgs is the number of positional arguments splitwavwin expects.
const NumArgs = 6

// Params holds one invocation request. Field order matches the positional
// order on the splitwavwin command line.
type Params struct {
	Threshold   float64 // energy threshold separating silence from signal
	SpanSilence int64   // ms of silence that ends a segment
	SpanMargin  int64   // ms of padding kept around each segment
	SpanMin     int64   // ms; shorter segments are dropped
	Input       string  // source .wav file
	OutputDir   string  // directory receiving the segments
}

// Defaults returns the parameters the splitter has always been driven with.
func Defaults() Params {
	return Params{
		Threshold:   0.000036,
		SpanSilence: 800,
		SpanMargin:  400,
		SpanMin:     200,
		Input:       "HEYTICO.wav",
		OutputDir:   "./output",
	}
}

// Args renders p as the positional argument vector. The result always has
// NumArgs elements; paths are passed through untouched.
func (p Params) Args() []string {
	return []string{
		strconv.FormatFloat(p.Threshold, 'f', -1, 64),
		strconv.FormatInt(p.SpanSilence, 10),
		strconv.FormatInt(p.SpanMargin, 10),
		strconv.FormatInt(p.SpanMin, 10),
		p.Input,
		p.OutputDir,
	}
}

// Parse is the inverse of Args. Surrounding spaces on the two paths are
// trimmed the same way splitwavwin trims them.
func Parse(args []string) (Params, error) {
	if len(args) != NumArgs {
		return Params{}, fmt.Errorf("want %d positional arguments, got %d", NumArgs, len(args))
	}

	var p Params
	var err error
	if p.Threshold, err = strconv.ParseFloat(args[0], 64); err != nil {
		return Params{}, fmt.Errorf("argument 1 (threshold): %w", err)
	}
	ints := []*int64{&p.SpanSilence, &p.SpanMargin, &p.SpanMin}
	names := []string{"span silence", "span margin", "span min"}
	for i, dst := range ints {
		if *dst, err = strconv.ParseInt(args[i+1], 10, 64); err != nil {
			return Params{}, fmt.Errorf("argument %d (%s): %w", i+2, names[i], err)
		}
	}
	p.Input = strings.Trim(args[4], " ")
	p.OutputDir = strings.Trim(args[5], " ")
	return p, nil
}

// String returns the argument vector joined by spaces, as it would be typed
// on a shell.
func (p Params) String() string {
	return strings.Join(p.Args(), " ")
}

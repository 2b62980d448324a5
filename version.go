// Package wavcall launches the splitwavwin WAV splitter as a child process
// and reports its outcome.
package wavcall

// Version is the wavcall release version.
const Version = "0.1.0"

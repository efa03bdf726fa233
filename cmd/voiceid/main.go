// Package main provides the voiceid CLI.
//
// Usage:
//
//	voiceid [flags] <command> [args]
//
// Commands:
//
//	denoise  - Spectrally denoise a WAV file
//	enroll   - Enroll a speaker from WAV recordings
//	identify - Identify the speaker in a WAV file
//	speakers - Inspect and manage enrolled speakers
//
// Profiles are kept in a local badger database; the directory and the
// analysis parameters can be set in a YAML config file passed with
// --config.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-voice/cmd/voiceid/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

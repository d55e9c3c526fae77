// SPDX-License-Identifier: EPL-2.0

// Command midify transcribes audio recordings to MIDI files.
//
// Usage:
//
//	midify convert take.wav -o take.mid
//	midify normalize take.mp3 -o take-mono.wav
//	midify inspect take.mid
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

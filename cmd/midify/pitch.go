// SPDX-License-Identifier: EPL-2.0

package main

import "fmt"

var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// pitchName spells a MIDI note number with middle C as C4.
func pitchName(p int) string {
	if p < 0 || p > 127 {
		return fmt.Sprintf("?%d", p)
	}
	return fmt.Sprintf("%s%d", pitchClasses[p%12], p/12-1)
}

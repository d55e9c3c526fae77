// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chromahubz/midify/midifile"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.mid>",
		Short: "List the notes of a MIDI file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, a, args[0])
		},
	}
}

func runInspect(cmd *cobra.Command, a *app, path string) error {
	in, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer in.Close()

	file, err := midifile.Read(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	a.logger.Debug("midi file read", "path", path, "notes", len(file.Notes))

	out := cmd.OutOrStdout()
	if file.TrackName != "" {
		fmt.Fprintf(out, "track: %s\n", file.TrackName)
	}
	fmt.Fprintf(out, "ppq: %d  tempo: %g bpm  bend range: %g semitones  notes: %d\n",
		file.TicksPerQuarter, file.Tempo, file.BendRange, len(file.Notes))

	if len(file.Notes) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tNOTE\tVELOCITY\tBENDS")
	for _, n := range file.Notes {
		fmt.Fprintf(tw, "%.3f\t%.3f\t%s\t%d\t%d\n",
			n.Start, n.End, pitchName(n.Pitch), int(n.Velocity*127+0.5), len(n.PitchBend))
	}

	return tw.Flush()
}

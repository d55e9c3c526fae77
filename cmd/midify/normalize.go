// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chromahubz/midify/audio"
	"github.com/chromahubz/midify/formats"
	"github.com/chromahubz/midify/formats/wav"
)

func newNormalizeCmd(a *app) *cobra.Command {
	var (
		output   string
		bitDepth int
	)

	cmd := &cobra.Command{
		Use:   "normalize <input>",
		Short: "Write the mono, resampled audio the transcriber sees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return errors.New("an output file is required (-o)")
			}
			return runNormalize(cmd, a, args[0], output, bitDepth)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output WAV file")
	cmd.Flags().IntVar(&bitDepth, "bits", 16, "output bit depth: 8, 16, 24 or 32")

	return cmd
}

func runNormalize(cmd *cobra.Command, a *app, input, output string, bitDepth int) error {
	in, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer in.Close()

	format, r, err := formats.Sniff(in, input)
	if err != nil {
		return err
	}

	dec, ok := formats.NewRegistry().Get(format)
	if !ok {
		return fmt.Errorf("%w: %q", formats.ErrUnknownFormat, format)
	}

	buf, err := dec.Decode(r)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", input, err)
	}

	mono, err := audio.Normalize(buf, a.cfg.Audio.SampleRate)
	if err != nil {
		return err
	}
	a.logger.Debug("normalized", "input", input, "format", format,
		"from", buf.SampleRate, "channels", buf.Channels, "to", mono.SampleRate, "frames", mono.Frames())

	out, err := os.Create(output)
	if err != nil {
		return err
	}

	if err := wav.Encode(out, mono, bitDepth); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d Hz mono, %s\n", output, mono.SampleRate, mono.Duration())

	return nil
}

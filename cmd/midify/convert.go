// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/chromahubz/midify"
	"github.com/chromahubz/midify/formats"
	"github.com/chromahubz/midify/pipeline"
)

type convertFlags struct {
	output         string
	format         string
	onsetThreshold float64
	frameThreshold float64
	minFrames      int
	tempo          float64
	ppq            int
	noProgress     bool
}

func newConvertCmd(a *app) *cobra.Command {
	f := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Transcribe an audio file to MIDI",
		Long: `Transcribe an audio file to a Standard MIDI File.

The input format is detected from the file header, or from its extension
when the header is not recognized. Flags override the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, a, f, args[0])
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output MIDI file (default is the input name with .mid)")
	fl.StringVar(&f.format, "format", "", "input format: wav, aiff, ogg or mp3 (default is detected)")
	fl.Float64Var(&f.onsetThreshold, "onset-threshold", 0, "onset activation needed to start a note")
	fl.Float64Var(&f.frameThreshold, "frame-threshold", 0, "frame activation needed to sustain a note")
	fl.IntVar(&f.minFrames, "min-frames", 0, "shortest note kept, in frames")
	fl.Float64Var(&f.tempo, "tempo", 0, "tempo written to the file, in BPM")
	fl.IntVar(&f.ppq, "ppq", 0, "ticks per quarter note")
	fl.BoolVar(&f.noProgress, "no-progress", false, "do not draw a progress bar")

	return cmd
}

// apply copies explicitly set flags over the loaded config.
func (f *convertFlags) apply(cmd *cobra.Command, a *app) error {
	fl := cmd.Flags()
	if fl.Changed("onset-threshold") {
		a.cfg.Decode.OnsetThreshold = f.onsetThreshold
	}
	if fl.Changed("frame-threshold") {
		a.cfg.Decode.FrameThreshold = f.frameThreshold
	}
	if fl.Changed("min-frames") {
		a.cfg.Decode.MinNoteFrames = f.minFrames
	}
	if fl.Changed("tempo") {
		a.cfg.MIDI.Tempo = f.tempo
	}
	if fl.Changed("ppq") {
		a.cfg.MIDI.TicksPerQuarter = f.ppq
	}

	return a.cfg.Validate()
}

func outputPath(input, output string) string {
	if output != "" {
		return output
	}
	if input == "-" {
		return "out.mid"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".mid"
}

func runConvert(cmd *cobra.Command, a *app, f *convertFlags, input string) error {
	if err := f.apply(cmd, a); err != nil {
		return err
	}

	in, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer in.Close()

	format := f.format
	var r io.Reader = in
	if format == "" {
		if format, r, err = formats.Sniff(in, input); err != nil {
			return err
		}
	}

	src, err := formats.Open(format, r)
	if err != nil {
		return fmt.Errorf("opening %s: %w", input, err)
	}

	opts := []pipeline.Option{pipeline.WithLogger(a.logger)}
	var progress *progressBar
	if !f.noProgress {
		progress = newProgressBar(cmd, filepath.Base(input))
		opts = append(opts, pipeline.WithObserver(progress.observe))
	}

	conv, err := midify.NewConverter(a.cfg, opts...)
	if err != nil {
		src.Close()
		return err
	}

	res, err := conv.Convert(cmd.Context(), src)
	if progress != nil {
		progress.wait()
	}
	if err != nil {
		return err
	}

	out := outputPath(input, f.output)
	if err := os.WriteFile(out, res.MIDI, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d notes, %d bytes\n", out, len(res.Notes), res.Size)

	return nil
}

// progressBar renders pipeline states with mpb.
type progressBar struct {
	p       *mpb.Progress
	bar     *mpb.Bar
	message atomic.Value
}

func newProgressBar(cmd *cobra.Command, name string) *progressBar {
	pb := &progressBar{p: mpb.New(mpb.WithWidth(40), mpb.WithOutput(cmd.ErrOrStderr()))}
	pb.message.Store("")

	pb.bar = pb.p.AddBar(100,
		mpb.PrependDecorators(
			decor.Name(name+" "),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.Any(func(decor.Statistics) string {
				return pb.message.Load().(string)
			}),
		),
	)

	return pb
}

func (pb *progressBar) observe(s pipeline.State) {
	pb.message.Store(s.Message)

	switch s.Stage {
	case pipeline.Failed:
		pb.bar.Abort(false)
	default:
		pb.bar.SetCurrent(int64(s.Percent))
	}
}

// wait flushes the bar. Runs that ended without a terminal state, such as
// a cancelled context, abort it first.
func (pb *progressBar) wait() {
	if !pb.bar.Completed() {
		pb.bar.Abort(false)
	}
	pb.p.Wait()
}

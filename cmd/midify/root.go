// SPDX-License-Identifier: EPL-2.0

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chromahubz/midify/config"
)

// app holds state shared by every subcommand.
type app struct {
	configPath string
	debug      bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "midify",
		Short:         "Transcribe audio recordings to MIDI",
		Long:          `midify detects the notes played in a WAV, AIFF, Ogg Vorbis or MP3 recording and writes them as a Standard MIDI File.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = initLogger(cmd.ErrOrStderr(), a.debug)

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger.Debug("configuration loaded", "path", a.configPath, "sampleRate", cfg.Audio.SampleRate)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/midify/config.json)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newConvertCmd(a),
		newNormalizeCmd(a),
		newInspectCmd(a),
	)

	return root
}

func initLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return logger
}

// openInput opens path for reading. "-" means stdin.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}

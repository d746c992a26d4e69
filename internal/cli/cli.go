// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cli implements the noisegen command-line interface.
//
// The CLI renders noise textures to files, prints data URLs and raw
// samples, and runs the HTTP server. It is built using cobra; logging goes
// through charmbracelet/log, which is also installed as the slog handler
// of the noise library so GPU lifecycle events share the same output.
//
// # Commands
//
//   - render: write a PNG, BMP or TIFF file
//   - dataurl: print a PNG data URL
//   - raw: write normalized samples as float32 or CSV
//   - algorithms: list the supported algorithms
//   - serve: run the HTTP server
//
// # Presets
//
// Every rendering command accepts --config with a TOML preset. Flags given
// on the command line override the preset.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/noise"
)

const appName = "noisegen"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version = noise.Version // semantic version
	commit  = "unknown"     // git commit SHA
	date    = "unknown"     // build timestamp
)

// SetVersion sets the version information displayed by --version.
// Empty values keep the defaults.
func SetVersion(v, c, d string) {
	for dst, src := range map[*string]string{&version: v, &commit: c, &date: d} {
		if src != "" {
			*dst = src
		}
	}
}

// textureFactory creates a generator for an algorithm chosen at run time.
type textureFactory func(alg noise.Algorithm, opts ...noise.Option) (noise.Texture, error)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	newTexture textureFactory
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		newTexture: noise.New,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "noisegen renders procedural noise textures on the GPU",
		Long:         `noisegen renders value, simplex and Perlin noise textures with a GPU fragment shader and writes them as images, data URLs or raw samples, or serves them over HTTP.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			noise.SetLogger(slog.New(c.Logger))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.dataURLCommand())
	root.AddCommand(c.rawCommand())
	root.AddCommand(c.algorithmsCommand())
	root.AddCommand(c.serveCommand())

	return root
}

// open creates the generator for a resolved preset.
func (c *CLI) open(p *Preset) (noise.Texture, error) {
	alg, err := noise.ParseAlgorithm(p.Algorithm)
	if err != nil {
		return nil, err
	}
	return c.newTexture(alg, p.options()...)
}

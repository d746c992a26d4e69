// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/noise"
	"github.com/gogpu/noise/internal/cache"
	"github.com/gogpu/noise/internal/server"
)

const (
	defaultAddr       = ":8080"
	defaultCacheBytes = 64 << 20
	redisKeyPrefix    = appName + ":"
)

type serveOpts struct {
	config       string
	backend      string
	addr         string
	redis        string
	cacheTTL     time.Duration
	cacheBytes   int64
	maxDimension int
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve noise textures over HTTP",
		Long: `Serve noise textures over HTTP.

PNG renders with a deterministic seed are cached in Redis when --redis is
given, otherwise in an in-process LRU bounded by --cache-bytes.`,
		Example: `  noisegen serve --addr :8080
  noisegen serve --redis redis://localhost:6379/0 --cache-ttl 6h
  curl 'http://localhost:8080/v1/noise/perlin.png?width=256&height=256&octaves=4&seed=7'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), p)
		},
	}
	opts.register(cmd)
	return cmd
}

func (o *serveOpts) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&o.config, "config", "c", "", "TOML preset file ([defaults] and [server] are used)")
	fs.StringVar(&o.backend, "backend", "", "rendering backend (default: first available)")
	fs.StringVar(&o.addr, "addr", defaultAddr, "listen address")
	fs.StringVar(&o.redis, "redis", "", "Redis URL for the PNG cache (redis://host:port/db)")
	fs.DurationVar(&o.cacheTTL, "cache-ttl", server.DefaultCacheTTL, "lifetime of cached PNGs")
	fs.Int64Var(&o.cacheBytes, "cache-bytes", defaultCacheBytes, "in-process cache budget, 0 disables it")
	fs.IntVar(&o.maxDimension, "max-dimension", server.DefaultMaxDimension, "largest width or height served")
}

// resolve merges the preset with the changed flags. Flag defaults apply
// only where the preset is silent.
func (o *serveOpts) resolve(cmd *cobra.Command) (*Preset, error) {
	var p Preset
	if o.config != "" {
		var err error
		if p, err = loadPreset(o.config); err != nil {
			return nil, err
		}
	}
	changed := cmd.Flags().Changed
	pick := func(name string, presetEmpty bool) bool { return changed(name) || presetEmpty }

	if pick("backend", p.Backend == "") {
		p.Backend = o.backend
	}
	if pick("addr", p.Server.Addr == "") {
		p.Server.Addr = o.addr
	}
	if pick("redis", p.Server.Redis == "") {
		p.Server.Redis = o.redis
	}
	if pick("cache-ttl", p.Server.CacheTTL == 0) {
		p.Server.CacheTTL = o.cacheTTL
	}
	if pick("cache-bytes", p.Server.CacheBytes == 0) {
		p.Server.CacheBytes = o.cacheBytes
	}
	if pick("max-dimension", p.Server.MaxDimension == 0) {
		p.Server.MaxDimension = o.maxDimension
	}
	return &p, nil
}

func (c *CLI) runServe(ctx context.Context, p *Preset) error {
	logger := loggerFromContext(ctx)

	renderers := make([]server.Renderer, 0, len(noise.Algorithms()))
	for _, alg := range noise.Algorithms() {
		tex, err := c.newTexture(alg, p.options()...)
		if err != nil {
			return fmt.Errorf("%s generator: %w", alg, err)
		}
		defer tex.Close()
		renderers = append(renderers, tex)
	}

	store, err := openCache(ctx, p.Server)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(renderers,
		server.WithCache(store, p.Server.CacheTTL),
		server.WithDefaults(p.Defaults),
		server.WithMaxDimension(p.Server.MaxDimension),
		server.WithLogger(slog.New(logger)),
	)
	logger.Infof("Serving %s on %s", algorithmNames(), p.Server.Addr)
	return srv.ListenAndServe(ctx, p.Server.Addr)
}

// openCache returns the Redis cache when configured, else an in-process
// LRU, else no cache.
func openCache(ctx context.Context, sp ServerPreset) (cache.Cache, error) {
	logger := loggerFromContext(ctx)
	switch {
	case sp.Redis != "":
		r, err := cache.DialRedis(ctx, sp.Redis, redisKeyPrefix)
		if err != nil {
			return nil, err
		}
		logger.Info("Using Redis cache")
		return r, nil
	case sp.CacheBytes > 0:
		logger.Debug("Using in-process cache", "bytes", sp.CacheBytes)
		return cache.NewMemory(sp.CacheBytes), nil
	default:
		logger.Debug("Caching disabled")
		return cache.Null{}, nil
	}
}

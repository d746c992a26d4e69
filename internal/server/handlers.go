// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gogpu/noise"
	"github.com/gogpu/noise/internal/cache"
)

// Response headers describing the render.
const (
	headerCache  = "X-Noise-Cache"
	headerWidth  = "X-Noise-Width"
	headerHeight = "X-Noise-Height"
	headerSeed   = "X-Noise-Seed"
)

// request is a parsed render request.
type request struct {
	renderer      Renderer
	cfg           noise.AnyConfig
	params        noise.Params
	deterministic bool
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(s.renderers))
	for _, a := range noise.Algorithms() {
		if _, ok := s.renderers[a.String()]; ok {
			names = append(names, a.String())
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"algorithms": names})
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parse(w, r)
	if !ok {
		return
	}
	log := s.logger(r)

	var key string
	if req.deterministic {
		key = cache.Key("png", cacheKey(req.renderer.Algorithm(), req.params, req.cfg.Interpolation)...)
		data, hit, err := s.cache.Get(r.Context(), key)
		if err != nil {
			log.Warn("server: cache get failed", "err", err)
		}
		if hit {
			s.writePNG(w, req, data, "hit")
			return
		}
	}

	img, err := req.renderer.ImageData(req.cfg)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.fail(w, r, http.StatusInternalServerError, fmt.Errorf("encode png: %w", err))
		return
	}

	if req.deterministic {
		if err := s.cache.Set(r.Context(), key, buf.Bytes(), s.ttl); err != nil {
			log.Warn("server: cache set failed", "err", err)
		}
	}
	s.writePNG(w, req, buf.Bytes(), "miss")
}

func (s *Server) writePNG(w http.ResponseWriter, req request, data []byte, status string) {
	h := w.Header()
	h.Set("Content-Type", "image/png")
	h.Set("Content-Length", strconv.Itoa(len(data)))
	s.describe(h, req)
	if req.deterministic {
		h.Set(headerCache, status)
	}
	_, _ = w.Write(data)
}

func (s *Server) handleDataURL(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parse(w, r)
	if !ok {
		return
	}
	dataURL, err := req.renderer.DataURL(req.cfg)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	s.describe(h, req)
	_, _ = w.Write([]byte(dataURL))
}

// handleRaw writes the normalized samples as little-endian float32,
// row-major with row zero at the top.
func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parse(w, r)
	if !ok {
		return
	}
	data, err := req.renderer.RawData(req.cfg)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	var buf bytes.Buffer
	buf.Grow(len(data) * 4)
	_ = binary.Write(&buf, binary.LittleEndian, data)

	h := w.Header()
	h.Set("Content-Type", "application/octet-stream")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	s.describe(h, req)
	_, _ = w.Write(buf.Bytes())
}

// parse resolves the algorithm and query. On failure it writes the error
// response and returns false.
func (s *Server) parse(w http.ResponseWriter, r *http.Request) (request, bool) {
	name := chi.URLParam(r, "algorithm")
	alg, err := noise.ParseAlgorithm(name)
	if err != nil {
		s.fail(w, r, http.StatusNotFound, err)
		return request{}, false
	}
	rend, ok := s.renderers[alg.String()]
	if !ok {
		s.fail(w, r, http.StatusNotFound, fmt.Errorf("algorithm %q is not served", alg))
		return request{}, false
	}

	cfg, err := parseConfig(r.URL.Query())
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return request{}, false
	}
	p := noise.Resolve(cfg.SharedConfig, s.defaults)
	if p.Width > s.maxDim || p.Height > s.maxDim {
		s.fail(w, r, http.StatusBadRequest,
			fmt.Errorf("%w: %dx%d exceeds %d", errBadQuery, p.Width, p.Height, s.maxDim))
		return request{}, false
	}

	return request{
		renderer:      rend,
		cfg:           cfg,
		params:        p,
		deterministic: !effectiveSeed(cfg.Seed, s.defaults.Seed).IsAuto(),
	}, true
}

// describe sets headers with the resolved size and, when it is known in
// advance, the seed.
func (s *Server) describe(h http.Header, req request) {
	h.Set(headerWidth, strconv.Itoa(req.params.Width))
	h.Set(headerHeight, strconv.Itoa(req.params.Height))
	if req.deterministic {
		h.Set(headerSeed, strconv.FormatInt(req.params.Seed, 10))
		h.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(s.ttl.Seconds())))
	} else {
		h.Set("Cache-Control", "no-store")
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	log := s.logger(r)
	if status >= http.StatusInternalServerError {
		log.Error("server: render failed", "err", err)
	} else {
		log.Debug("server: rejected request", "status", status, "err", err)
	}
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	http.Error(w, msg, status)
}

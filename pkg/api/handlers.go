package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/polypack/pkg/buildinfo"
	perrors "github.com/matzehuels/polypack/pkg/errors"
	pkgio "github.com/matzehuels/polypack/pkg/io"
	"github.com/matzehuels/polypack/pkg/pipeline"
	"github.com/matzehuels/polypack/pkg/polyomino"
	"github.com/matzehuels/polypack/pkg/sampler"
)

type catalogueResponse struct {
	MaxK         int         `json:"max_k"`
	IncludeHoles bool        `json:"include_holes"`
	Counts       []int       `json:"counts"`
	Enumerated   []int       `json:"enumerated"`
	Total        int         `json:"total"`
	Cached       bool        `json:"cached"`
	Classes      []classBody `json:"classes,omitempty"`
}

type classBody struct {
	Size   int               `json:"size"`
	Count  int               `json:"count"`
	Shapes []polyomino.Shape `json:"shapes"`
}

type caseRequest struct {
	Seed         uint64   `json:"seed"`
	MaxK         int      `json:"max_k"`
	IncludeHoles bool     `json:"include_holes"`
	MinPick      int      `json:"min_pick"`
	MaxPick      int      `json:"max_pick"`
	MinExp       *float64 `json:"min_exp"`
	MaxExp       *float64 `json:"max_exp"`
	Orient       bool     `json:"orient"`
}

type caseResponse struct {
	sampler.Case
	Seed   uint64 `json:"seed"`
	Cached bool   `json:"cached"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (h *handler) catalogue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	maxK, err := h.maxK(q.Get("max_k"), h.opts.MaxK)
	if err != nil {
		writeError(w, r, err)
		return
	}
	holes, err := boolParam(q.Get("include_holes"), "include_holes", false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	withShapes, err := boolParam(q.Get("shapes"), "shapes", true)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cat, info, err := h.runner.Catalogue(r.Context(), h.pipelineOptions(maxK, holes))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := catalogueResponse{
		MaxK:         cat.MaxK,
		IncludeHoles: cat.IncludeHoles,
		Counts:       cat.Counts(),
		Enumerated:   cat.Enumerated,
		Total:        cat.Total(),
		Cached:       info.CatalogueHit,
	}
	if withShapes {
		for _, class := range cat.Classes {
			resp.Classes = append(resp.Classes, classBody{Size: class.Size, Count: len(class.Shapes), Shapes: class.Shapes})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) sizeClass(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(chi.URLParam(r, "size"))
	if err != nil {
		writeError(w, r, badRequest("size must be an integer, got %q", chi.URLParam(r, "size")))
		return
	}
	if size < 1 {
		writeError(w, r, notFound("size must be >= 1, got %d", size))
		return
	}
	q := r.URL.Query()
	maxK, err := h.maxK(q.Get("max_k"), size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if size > maxK {
		writeError(w, r, notFound("size %d is outside the catalogue 1..%d", size, maxK))
		return
	}
	holes, err := boolParam(q.Get("include_holes"), "include_holes", false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cat, _, err := h.runner.Catalogue(r.Context(), h.pipelineOptions(maxK, holes))
	if err != nil {
		writeError(w, r, err)
		return
	}
	shapes := cat.Size(size)
	writeJSON(w, http.StatusOK, classBody{Size: size, Count: len(shapes), Shapes: shapes})
}

func (h *handler) cases(w http.ResponseWriter, r *http.Request) {
	var req caseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, badRequest("invalid request body: %v", err))
		return
	}

	maxK := req.MaxK
	if maxK == 0 {
		maxK = h.opts.MaxK
	}
	if err := perrors.ValidateMaxK(maxK, h.opts.MaxK); err != nil {
		writeError(w, r, err)
		return
	}

	sopts := sampler.DefaultOptions()
	if req.MinPick != 0 {
		sopts.MinPick = req.MinPick
	}
	if req.MaxPick != 0 {
		sopts.MaxPick = req.MaxPick
	}
	if req.MinExp != nil {
		sopts.MinExp = *req.MinExp
	}
	if req.MaxExp != nil {
		sopts.MaxExp = *req.MaxExp
	}
	sopts.Orient = req.Orient

	c, hit, err := h.runner.Case(r.Context(), h.pipelineOptions(maxK, req.IncludeHoles), req.Seed, sopts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = pkgio.WriteCase(w, c)
		return
	}
	writeJSON(w, http.StatusOK, caseResponse{Case: c, Seed: req.Seed, Cached: hit})
}

func (h *handler) pipelineOptions(maxK int, holes bool) pipeline.Options {
	return pipeline.Options{
		MaxK:         maxK,
		IncludeHoles: holes,
		Workers:      h.opts.Workers,
		MaxShapes:    h.opts.MaxShapes,
		Logger:       h.opts.Logger,
	}
}

// maxK parses the max_k parameter, falling back to def, and applies the cap.
func (h *handler) maxK(raw string, def int) (int, error) {
	k := def
	if raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, badRequest("max_k must be an integer, got %q", raw)
		}
		k = v
	}
	if err := perrors.ValidateMaxK(k, h.opts.MaxK); err != nil {
		return 0, err
	}
	return k, nil
}

func boolParam(raw, name string, def bool) (bool, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, badRequest("%s must be a boolean, got %q", name, raw)
	}
	return v, nil
}

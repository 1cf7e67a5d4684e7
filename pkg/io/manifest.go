package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	perrors "github.com/matzehuels/polypack/pkg/errors"
	"github.com/matzehuels/polypack/pkg/sampler"
)

// ManifestFile is the name of the manifest written next to the cases.
const ManifestFile = "manifest.json"

// Manifest describes one generate run.
type Manifest struct {
	RunID        string          `json:"run_id"`
	CreatedAt    time.Time       `json:"created_at"`
	Version      string          `json:"version,omitempty"`
	Seed         uint64          `json:"seed"`
	MaxK         int             `json:"max_k"`
	IncludeHoles bool            `json:"include_holes"`
	Sampler      sampler.Options `json:"sampler"`
	Cases        []CaseSummary   `json:"cases"`
}

// CaseSummary is the per-case line of a manifest.
type CaseSummary struct {
	Index    int    `json:"index"`
	Input    string `json:"input"`
	Answer   string `json:"answer"`
	KPick    int    `json:"k_pick"`
	KUse     int    `json:"k_use"`
	Shapes   int    `json:"n"`
	PoolSize int    `json:"pool"`
	Target   int    `json:"target"`
	Cells    int    `json:"cells"`
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(seed uint64, maxK int, includeHoles bool, opts sampler.Options) *Manifest {
	return &Manifest{
		RunID:        uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Seed:         seed,
		MaxK:         maxK,
		IncludeHoles: includeHoles,
		Sampler:      opts,
	}
}

// Add records a written case. Paths are stored relative to the manifest.
func (m *Manifest) Add(c sampler.Case, inPath, ansPath string) {
	m.Cases = append(m.Cases, CaseSummary{
		Index:    c.Index,
		Input:    filepath.Base(inPath),
		Answer:   filepath.Base(ansPath),
		KPick:    c.KPick,
		KUse:     c.KUse,
		Shapes:   len(c.Shapes),
		PoolSize: c.PoolSize,
		Target:   c.Target,
		Cells:    c.Cells,
	})
}

// EncodeManifest writes m as indented JSON.
func EncodeManifest(w io.Writer, m *Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// WriteManifest writes dir/manifest.json and returns its path.
func WriteManifest(dir string, m *Manifest) (string, error) {
	path := filepath.Join(dir, ManifestFile)
	return path, writeFile(path, func(w io.Writer) error { return EncodeManifest(w, m) })
}

// ReadManifest loads dir/manifest.json.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "read manifest")
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "decode manifest")
	}
	return &m, nil
}

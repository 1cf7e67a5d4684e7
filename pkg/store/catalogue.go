package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/polypack/pkg/catalogue"
	perrors "github.com/matzehuels/polypack/pkg/errors"
	"github.com/matzehuels/polypack/pkg/polyomino"
)

// ClassCount is one row of [Store.Counts].
type ClassCount struct {
	Size       int
	Enumerated int
	Kept       int
}

// SaveCatalogue replaces the stored catalogue with c.
func (s *Store) SaveCatalogue(ctx context.Context, c *catalogue.Catalogue) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{"DELETE FROM shapes", "DELETE FROM size_classes", "DELETE FROM catalogue"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return perrors.Wrap(perrors.ErrCodeIO, err, "clear catalogue")
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO catalogue (id, max_k, include_holes, saved_at) VALUES (1, ?, ?, ?)`,
		c.MaxK, c.IncludeHoles, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "insert catalogue")
	}

	insertShape, err := tx.PrepareContext(ctx,
		`INSERT INTO shapes (size, ordinal, cells, width, height) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "prepare shape insert")
	}
	defer insertShape.Close()

	for i, class := range c.Classes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO size_classes (size, enumerated, kept) VALUES (?, ?, ?)`,
			class.Size, c.Enumerated[i], len(class.Shapes),
		); err != nil {
			return perrors.Wrap(perrors.ErrCodeIO, err, "insert size %d", class.Size)
		}
		for j, shape := range class.Shapes {
			cells, err := json.Marshal(shape)
			if err != nil {
				return err
			}
			if _, err := insertShape.ExecContext(ctx, class.Size, j, string(cells), shape.Width(), shape.Height()); err != nil {
				return perrors.Wrap(perrors.ErrCodeIO, err, "insert shape %d of size %d", j, class.Size)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "commit catalogue")
	}
	return nil
}

// LoadCatalogue reads and validates the stored catalogue. It fails with
// NOT_FOUND when nothing has been saved.
func (s *Store) LoadCatalogue(ctx context.Context) (*catalogue.Catalogue, error) {
	var c catalogue.Catalogue
	err := s.db.QueryRowContext(ctx, `SELECT max_k, include_holes FROM catalogue WHERE id = 1`).
		Scan(&c.MaxK, &c.IncludeHoles)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, perrors.New(perrors.ErrCodeNotFound, "no catalogue stored")
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "read catalogue")
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		return nil, err
	}
	c.Classes = make([]catalogue.SizeClass, len(counts))
	c.Enumerated = make([]int, len(counts))
	for i, row := range counts {
		c.Classes[i] = catalogue.SizeClass{Size: row.Size, Shapes: make([]polyomino.Shape, 0, row.Kept)}
		c.Enumerated[i] = row.Enumerated
	}

	rows, err := s.db.QueryContext(ctx, `SELECT size, cells FROM shapes ORDER BY size, ordinal`)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "query shapes")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			size  int
			cells string
		)
		if err := rows.Scan(&size, &cells); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeIO, err, "scan shape")
		}
		if size < 1 || size > len(c.Classes) {
			return nil, perrors.New(perrors.ErrCodeInvalidCatalogue, "shape of size %d outside catalogue", size)
		}
		var shape polyomino.Shape
		if err := json.Unmarshal([]byte(cells), &shape); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidCatalogue, err, "decode shape of size %d", size)
		}
		c.Classes[size-1].Shapes = append(c.Classes[size-1].Shapes, shape)
	}
	if err := rows.Err(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "iterate shapes")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Counts returns the per-size counts of the stored catalogue in size order.
// It is empty when nothing has been saved.
func (s *Store) Counts(ctx context.Context) ([]ClassCount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT size, enumerated, kept FROM size_classes ORDER BY size`)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "query size classes")
	}
	defer rows.Close()

	var out []ClassCount
	for rows.Next() {
		var cc ClassCount
		if err := rows.Scan(&cc.Size, &cc.Enumerated, &cc.Kept); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeIO, err, "scan size class")
		}
		out = append(out, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate size classes: %w", err)
	}
	return out, nil
}

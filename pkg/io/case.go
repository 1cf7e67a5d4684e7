package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	perrors "github.com/matzehuels/polypack/pkg/errors"
	"github.com/matzehuels/polypack/pkg/polyomino"
	"github.com/matzehuels/polypack/pkg/sampler"
)

// Answer is the content of every .ans file.
const Answer = "zzz\n"

// WriteCase writes the shapes of c in the packing input format.
func WriteCase(w io.Writer, c sampler.Case) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(c.Shapes))
	for _, s := range c.Shapes {
		fmt.Fprintf(bw, "%d\n", len(s))
		for _, cell := range s {
			fmt.Fprintf(bw, "%d %d\n", cell.X, cell.Y)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write case: %w", err)
	}
	return nil
}

// WriteAnswer writes the placeholder answer.
func WriteAnswer(w io.Writer) error {
	_, err := io.WriteString(w, Answer)
	return err
}

// ExportCase writes <index>.in and <index>.ans into dir and returns their
// paths. dir must exist.
func ExportCase(dir string, c sampler.Case) (inPath, ansPath string, err error) {
	inPath = filepath.Join(dir, strconv.Itoa(c.Index)+".in")
	ansPath = filepath.Join(dir, strconv.Itoa(c.Index)+".ans")

	if err := writeFile(inPath, func(w io.Writer) error { return WriteCase(w, c) }); err != nil {
		return "", "", err
	}
	if err := writeFile(ansPath, WriteAnswer); err != nil {
		return "", "", err
	}
	return inPath, ansPath, nil
}

// ReadCase parses the packing input format. Cells are returned as written,
// without normalization.
func ReadCase(r io.Reader) ([]polyomino.Shape, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		for sc.Scan() {
			line++
			if t := strings.TrimSpace(sc.Text()); t != "" {
				return t, true
			}
		}
		return "", false
	}
	count := func(what string) (int, error) {
		t, ok := next()
		if !ok {
			return 0, malformed(line, "missing %s", what)
		}
		n, err := strconv.Atoi(t)
		if err != nil || n < 0 {
			return 0, malformed(line, "bad %s %q", what, t)
		}
		return n, nil
	}

	n, err := count("shape count")
	if err != nil {
		return nil, err
	}
	shapes := make([]polyomino.Shape, 0, n)
	for range n {
		size, err := count("cell count")
		if err != nil {
			return nil, err
		}
		s := make(polyomino.Shape, 0, size)
		for range size {
			t, ok := next()
			if !ok {
				return nil, malformed(line, "missing cell")
			}
			var c polyomino.Cell
			if _, err := fmt.Sscanf(t, "%d %d", &c.X, &c.Y); err != nil {
				return nil, malformed(line, "bad cell %q", t)
			}
			s = append(s, c)
		}
		shapes = append(shapes, s)
	}
	if err := sc.Err(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "read case")
	}
	return shapes, nil
}

func malformed(line int, format string, args ...any) error {
	return perrors.New(perrors.ErrCodeInvalidArgument, "line %d: %s", line, fmt.Sprintf(format, args...))
}

// writeFile creates path and runs write on it, closing the file either way.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = perrors.Wrap(perrors.ErrCodeIO, cerr, "close %s", path)
		}
	}()
	if err := write(f); err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

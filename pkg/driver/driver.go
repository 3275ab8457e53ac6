// Package driver runs the interactive query loop: it reads
// "source_node source_time target_node" triples from a reader and writes one
// plain text report per query.
package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	log "github.com/sirupsen/logrus"

	"td_router/pkg/plf"
	"td_router/pkg/pruning"
)

// Per-query input errors. The loop reports them inline and continues.
var (
	ErrInvalidSource = errors.New("source node invalid")
	ErrInvalidTarget = errors.New("target node invalid")
	ErrInvalidTime   = errors.New("source time invalid")
)

// ErrMalformedInput is returned when the input contains something other
// than unsigned integers.
var ErrMalformedInput = errors.New("malformed query input")

// Handler answers one validated query by writing its report to w.
type Handler interface {
	Handle(w io.Writer, q pruning.Query) error
}

// Validate checks a query against a graph with nodeCount nodes.
func Validate(q pruning.Query, nodeCount uint32) error {
	switch {
	case q.Source >= nodeCount:
		return ErrInvalidSource
	case q.Target >= nodeCount:
		return ErrInvalidTarget
	case q.SourceTime > plf.Period:
		return ErrInvalidTime
	}
	return nil
}

// Loop writes "Ready" and then answers queries read from in until the
// input ends or ctx is done. An incomplete triple at the end of the input
// is ignored.
func Loop(ctx context.Context, in io.Reader, out io.Writer, nodeCount uint32, h Handler) error {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	w := bufio.NewWriter(out)

	fmt.Fprintln(w, "Ready")
	if err := w.Flush(); err != nil {
		return err
	}

	var queries int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var triple [3]uint32
		n, err := readTriple(sc, &triple)
		if err != nil {
			return err
		}
		if n < len(triple) {
			if n > 0 {
				log.Warnf("ignoring incomplete query at end of input")
			}
			log.Debugf("input closed after %d queries", queries)
			return nil
		}
		queries++

		q := pruning.Query{Source: triple[0], SourceTime: triple[1], Target: triple[2]}
		if err := Validate(q, nodeCount); err != nil {
			fmt.Fprintln(w, err)
		} else if err := h.Handle(w, q); err != nil {
			return fmt.Errorf("query %d %d %d: %w", q.Source, q.SourceTime, q.Target, err)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}

// readTriple fills t and returns how many values were read before the
// input ended.
func readTriple(sc *bufio.Scanner, t *[3]uint32) (int, error) {
	for i := range t {
		if !sc.Scan() {
			return i, sc.Err()
		}
		v, err := strconv.ParseUint(sc.Text(), 10, 32)
		if err != nil {
			return i, fmt.Errorf("%w: %q", ErrMalformedInput, sc.Text())
		}
		t[i] = uint32(v)
	}
	return len(t), nil
}

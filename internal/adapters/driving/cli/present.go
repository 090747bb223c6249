package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/core/ports/driving"
)

// presentPlain opens items batch by batch, reading a line from in before
// each batch after the first. Closing in stops the review.
func presentPlain(ctx context.Context, review driving.ReviewService, items []domain.Item, in io.Reader, out io.Writer) error {
	if len(items) == 0 {
		fmt.Fprintln(out, "No new items to open!")
		return nil
	}
	fmt.Fprintf(out, "Found %d unique items to open\n", len(items))

	it := review.Plan(items)
	lines := newLineReader(in)
	defer lines.Close()
	var total domain.OpenSummary

	for {
		batch, ok := it.Next()
		if !ok {
			break
		}

		printBatch(out, batch, it.Batches() <= 1)
		s := review.Open(ctx, batch)
		total.Opened += s.Opened
		total.Failed += s.Failed
		if err := ctx.Err(); err != nil {
			return err
		}

		start, end, more := it.Peek()
		if !more {
			break
		}
		fmt.Fprintf(out, "\nPress Enter to open next batch (%d-%d of %d)...", start+1, end, len(items))
		if err := lines.Next(ctx); err != nil {
			fmt.Fprintln(out)
			if errors.Is(err, io.EOF) {
				fmt.Fprintf(out, "Stopped with %d of %d links opened\n", total.Opened, len(items))
				return nil
			}
			return err
		}
	}

	fmt.Fprintln(out, "\nAll links have been opened!")
	if total.Failed > 0 {
		fmt.Fprintf(out, "%d links failed to open\n", total.Failed)
	}
	return nil
}

// printBatch prints the batch heading and one line per item.
func printBatch(out io.Writer, batch domain.Batch, all bool) {
	if all {
		fmt.Fprintln(out, "Opening all links...")
		for _, item := range batch.Items {
			fmt.Fprintf(out, "Opening: %s - %s\n", item.Name, item.Link())
		}
		return
	}

	fmt.Fprintf(out, "\nOpening batch %d (%d-%d of %d):\n", batch.Number(), batch.Start+1, batch.End, batch.Total)
	for i, item := range batch.Items {
		fmt.Fprintf(out, "%d. %s - %s\n", batch.Start+i+1, item.Name, item.Link())
	}
}

// lineReader hands out input lines one at a time. A single goroutine reads
// the input for the whole review, so a line typed after a cancelled wait is
// delivered to the next caller instead of being lost. That goroutine stays
// blocked in Read until the input yields data or is closed.
type lineReader struct {
	in    io.Reader
	lines chan error
	done  chan struct{}
	start sync.Once
	stop  sync.Once
}

func newLineReader(in io.Reader) *lineReader {
	return &lineReader{
		in:    in,
		lines: make(chan error),
		done:  make(chan struct{}),
	}
}

// Next waits for a line or for ctx to be done. It returns io.EOF once the
// input is exhausted.
func (l *lineReader) Next(ctx context.Context) error {
	l.start.Do(func() { go l.read() })

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err, ok := <-l.lines:
		if !ok {
			return io.EOF
		}
		return err
	}
}

// Close releases the reader goroutine once its pending read returns.
func (l *lineReader) Close() {
	l.stop.Do(func() { close(l.done) })
}

func (l *lineReader) read() {
	defer close(l.lines)

	sc := bufio.NewScanner(l.in)
	for sc.Scan() {
		select {
		case l.lines <- nil:
		case <-l.done:
			return
		}
	}

	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	select {
	case l.lines <- err:
	case <-l.done:
	}
}

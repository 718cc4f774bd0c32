package manifest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/handiism/hls-downloader/internal/model"
)

// Selector picks one variant of a multi-variant playlist and returns its
// index. It may block, e.g. while waiting for user input.
type Selector func(ctx context.Context, variants []model.Variant) (int, error)

// HighestBandwidth selects the variant with the largest BANDWIDTH. Ties
// and variants without bandwidth keep playlist order.
func HighestBandwidth(_ context.Context, variants []model.Variant) (int, error) {
	best := 0
	for i, v := range variants {
		if v.Bandwidth > variants[best].Bandwidth {
			best = i
		}
	}
	return best, nil
}

// FixedIndex returns a Selector that always picks index.
func FixedIndex(index int) Selector {
	return func(_ context.Context, _ []model.Variant) (int, error) {
		return index, nil
	}
}

// PromptSelector lists the variants on out and reads a 1-based choice from
// in. Invalid input is reported and asked again until in is exhausted.
//
// Waiting for input ends as soon as ctx is done.
func PromptSelector(in io.Reader, out io.Writer) Selector {
	var (
		once  sync.Once
		input = make(chan promptLine)
	)
	readLine := func(ctx context.Context) (string, error) {
		once.Do(func() { go scanLines(in, input) })

		select {
		case l, ok := <-input:
			if !ok {
				return "", io.EOF
			}
			return l.text, l.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return func(ctx context.Context, variants []model.Variant) (int, error) {
		fmt.Fprintln(out, "Available variants:")
		for i, v := range variants {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, v.Label())
		}

		for {
			if err := ctx.Err(); err != nil {
				return 0, err
			}

			fmt.Fprintf(out, "Select variant [1-%d]: ", len(variants))
			line, err := readLine(ctx)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, ctxErr
			}
			choice, convErr := strconv.Atoi(strings.TrimSpace(line))
			if convErr == nil && choice >= 1 && choice <= len(variants) {
				return choice - 1, nil
			}
			if err != nil {
				return 0, fmt.Errorf("read selection: %w", err)
			}
			fmt.Fprintf(out, "Please enter a number between 1 and %d.\n", len(variants))
		}
	}
}

type promptLine struct {
	text string
	err  error
}

// scanLines sends the lines of in until the first read error, which is
// sent along with any trailing text before the channel is closed.
func scanLines(in io.Reader, lines chan<- promptLine) {
	defer close(lines)

	reader := bufio.NewReader(in)
	for {
		text, err := reader.ReadString('\n')
		lines <- promptLine{text: text, err: err}
		if err != nil {
			return
		}
	}
}

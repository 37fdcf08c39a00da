// Package console implements the interactive menu for the grade tracker.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alem-hub/grade-tracker/internal/application/command"
)

// LinePrompter writes a prompt and reads one line of answer.
type LinePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer

	// pending carries the line being read when Ask returned early on
	// cancellation; the next Ask picks it up instead of starting a second read.
	pending chan scanResult
}

type scanResult struct {
	line string
	err  error
}

var _ command.Prompter = (*LinePrompter)(nil)

// NewLinePrompter reads answers from in and writes prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{scanner: bufio.NewScanner(in), out: out}
}

// Ask prints prompt without a newline and returns the next input line.
// It returns io.EOF when input ends, even if the last line had no terminator
// and was empty. A canceled ctx returns ctx.Err() without waiting for input.
func (p *LinePrompter) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}

	if p.pending == nil {
		p.pending = make(chan scanResult, 1)
		go func(ch chan<- scanResult) { ch <- p.scan() }(p.pending)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-p.pending:
		p.pending = nil
		return res.line, res.err
	}
}

func (p *LinePrompter) scan() scanResult {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return scanResult{err: fmt.Errorf("read input: %w", err)}
		}
		return scanResult{err: io.EOF}
	}
	return scanResult{line: strings.TrimRight(p.scanner.Text(), "\r")}
}

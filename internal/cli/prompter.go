// Package cli implements the interactive terminal front end of the converter.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

type line struct {
	text string
	err  error
}

// Prompter writes prompts and reads answers line by line. Reads can be
// abandoned through the context, so an interrupt never waits for input.
type Prompter struct {
	out   io.Writer
	lines chan line
}

// NewPrompter starts reading lines from in.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{out: out, lines: make(chan line)}
	go p.scan(in)
	return p
}

// scan forwards every line, however long, then the terminating read error.
func (p *Prompter) scan(in io.Reader) {
	r := bufio.NewReader(in)
	for {
		text, err := r.ReadString('\n')
		if text != "" {
			p.lines <- line{text: strings.TrimRight(text, "\r\n")}
		}
		if err != nil {
			p.lines <- line{err: err}
			close(p.lines)
			return
		}
	}
}

// Ask prints prompt and waits for the next line of input. It returns io.EOF
// once input is exhausted and the context error if ctx ends first.
func (p *Prompter) Ask(ctx context.Context, prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

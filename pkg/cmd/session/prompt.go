package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/igolaizola/lyrikai/pkg/errkind"
)

// errQuit is returned by the prompter when the user leaves: end of input,
// interrupt or the exit entry.
var errQuit = errors.New("quit")

type line struct {
	text string
	err  error
}

type prompter struct {
	lines <-chan line
	done  chan struct{}
	out   io.Writer
}

// newPrompter reads lines from r in background so prompts can be abandoned
// when the context is canceled. Lines have no length limit.
func newPrompter(r io.Reader, out io.Writer) *prompter {
	lines := make(chan line)
	done := make(chan struct{})
	go func() {
		defer close(lines)
		send := func(l line) bool {
			select {
			case <-done:
				return false
			case lines <- l:
				return true
			}
		}
		reader := bufio.NewReader(r)
		for {
			text, err := reader.ReadString('\n')
			if text != "" && !send(line{text: text}) {
				return
			}
			if err == nil {
				continue
			}
			if !errors.Is(err, io.EOF) {
				send(line{err: fmt.Errorf("session: couldn't read input: %w: %w", errkind.ErrIO, err)})
			}
			return
		}
	}()
	return &prompter{lines: lines, done: done, out: out}
}

// close stops the background reader once it is unblocked.
func (p *prompter) close() {
	close(p.done)
}

// ask prints the prompt and returns the next trimmed line. Read errors are
// returned once, the next call quits.
func (p *prompter) ask(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	select {
	case <-ctx.Done():
		return "", errQuit
	case l, ok := <-p.lines:
		if !ok {
			return "", errQuit
		}
		if l.err != nil {
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}

// choose asks until the answer is one of the options.
func (p *prompter) choose(ctx context.Context, prompt, retry string, options ...string) (string, error) {
	for {
		v, err := p.ask(ctx, prompt)
		if err != nil {
			return "", err
		}
		for _, o := range options {
			if v == o {
				return v, nil
			}
		}
		fmt.Fprintln(p.out, retry)
	}
}

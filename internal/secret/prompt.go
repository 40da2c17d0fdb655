package secret

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user questions on behalf of Configure.
type Prompter interface {
	// Interactive reports whether a human can answer.
	Interactive() bool
	// Confirm asks a yes/no question.
	Confirm(question string) (bool, error)
	// Secret reads a value without echoing it.
	Secret(prompt string) (string, error)
}

// TermPrompter prompts on the process terminal. Questions go to Out (stderr by default).
type TermPrompter struct {
	In  *os.File
	Out io.Writer

	reader *bufio.Reader
}

// NewTermPrompter returns a TermPrompter bound to stdin and stderr.
func NewTermPrompter() *TermPrompter {
	return &TermPrompter{In: os.Stdin, Out: os.Stderr}
}

// Interactive implements Prompter.
func (p *TermPrompter) Interactive() bool {
	return term.IsTerminal(int(p.In.Fd()))
}

// Confirm implements Prompter. Anything other than y/yes counts as no.
func (p *TermPrompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.Out, "%s (y/n): ", question)
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	return ParseYes(line), nil
}

// Secret implements Prompter with terminal echo disabled.
func (p *TermPrompter) Secret(prompt string) (string, error) {
	fmt.Fprint(p.Out, prompt)
	b, err := term.ReadPassword(int(p.In.Fd()))
	fmt.Fprintln(p.Out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseYes interprets a yes/no answer.
func ParseYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

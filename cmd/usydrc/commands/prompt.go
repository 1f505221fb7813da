package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type prompter struct {
	in  *bufio.Reader
	out io.Writer
	// reads a line without echoing it
	secret func() (string, error)
}

func newTerminalPrompter() prompter {
	return prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		secret: func() (string, error) {
			fd := int(os.Stdin.Fd())
			if !term.IsTerminal(fd) {
				return "", fmt.Errorf("stdin is not a terminal")
			}
			buff, err := term.ReadPassword(fd)
			fmt.Fprintln(os.Stdout)
			return string(buff), err
		},
	}
}

func (p prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p prompter) Password(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if p.secret == nil {
		return p.Line("")
	}
	return p.secret()
}

// Confirm treats an empty answer as yes.
func (p prompter) Confirm(label string) (bool, error) {
	answer, err := p.Line(label + " [Y/n] ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "" || strings.HasPrefix("yes", answer), nil
}

func (p prompter) Heading(title string) {
	fmt.Fprintln(p.out, title)
	fmt.Fprintln(p.out, strings.Repeat("=", len(title)))
}

// Package prompter reads interactive input: lines, hidden tokens and single
// key presses for the reel player.
package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

var (
	mu     sync.Mutex
	input  io.Reader = os.Stdin
	reader           = bufio.NewReader(os.Stdin)
	output io.Writer = os.Stdout
)

// SetIO redirects prompts. It returns a function restoring the previous
// streams.
func SetIO(in io.Reader, out io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()
	prevIn, prevReader, prevOut := input, reader, output
	input, reader, output = in, bufio.NewReader(in), out
	return func() {
		mu.Lock()
		defer mu.Unlock()
		input, reader, output = prevIn, prevReader, prevOut
	}
}

func readLine() (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PromptString prompts user for a string input
func PromptString(label string) (string, error) {
	fmt.Fprint(output, label)
	line, err := readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptPassword prompts for a secret. Input is hidden when reading from a
// terminal.
func PromptPassword(label string) (string, error) {
	fmt.Fprint(output, label)

	if f, ok := input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(output)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptConfirm prompts user for yes/no confirmation
func PromptConfirm(label string) (bool, error) {
	fmt.Fprint(output, label+" (y/n) ")
	line, err := readLine()
	if err != nil {
		return false, err
	}

	response := strings.TrimSpace(strings.ToLower(line))
	return response == "y" || response == "yes", nil
}

// PromptSelect prompts user to select from options and returns the index
func PromptSelect(label string, options []string) (int, error) {
	fmt.Fprintln(output, label)
	for i, opt := range options {
		fmt.Fprintf(output, "%d) %s\n", i+1, opt)
	}

	fmt.Fprint(output, "Select option: ")
	line, err := readLine()
	if err != nil {
		return -1, err
	}

	var selection int
	if _, err := fmt.Sscanf(strings.TrimSpace(line), "%d", &selection); err != nil {
		return -1, err
	}
	if selection < 1 || selection > len(options) {
		return -1, fmt.Errorf("invalid selection")
	}
	return selection - 1, nil
}

// PromptMultilineString reads lines until an empty line or maxLines
func PromptMultilineString(label string, maxLines int) (string, error) {
	fmt.Fprintf(output, "%s (empty line to finish):\n", label)

	var lines []string
	for i := 0; i < maxLines; i++ {
		line, err := readLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

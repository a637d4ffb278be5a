package prompter

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Key is a decoded key press
type Key string

const (
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeySpace     Key = "space"
	KeyEnter     Key = "enter"
	KeyEscape    Key = "esc"
	KeyInterrupt Key = "ctrl+c"
)

// KeyReader reads one key at a time. On a terminal it switches the terminal
// to raw mode until Close.
type KeyReader struct {
	in    io.Reader
	fd    int
	state *term.State
	buf   [8]byte
}

// NewKeyReader reads keys from in
func NewKeyReader(in io.Reader) (*KeyReader, error) {
	k := &KeyReader{in: in, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		k.fd = int(f.Fd())
		state, err := term.MakeRaw(k.fd)
		if err != nil {
			return nil, err
		}
		k.state = state
	}
	return k, nil
}

// Raw reports whether the terminal is in raw mode
func (k *KeyReader) Raw() bool {
	return k.state != nil
}

// Suspend leaves raw mode, e.g. to read a line of text, until resume is
// called
func (k *KeyReader) Suspend() (resume func() error, err error) {
	if k.state == nil {
		return func() error { return nil }, nil
	}
	if err := term.Restore(k.fd, k.state); err != nil {
		return nil, err
	}
	k.state = nil
	return func() error {
		state, err := term.MakeRaw(k.fd)
		if err != nil {
			return err
		}
		k.state = state
		return nil
	}, nil
}

// ReadKey blocks for the next key press
func (k *KeyReader) ReadKey() (Key, error) {
	for {
		n, err := k.in.Read(k.buf[:])
		if n > 0 {
			if key := decodeKey(k.buf[:n]); key != "" {
				return key, nil
			}
			continue
		}
		if err != nil {
			return "", err
		}
	}
}

// Close restores the terminal
func (k *KeyReader) Close() error {
	if k.state == nil {
		return nil
	}
	state := k.state
	k.state = nil
	return term.Restore(k.fd, state)
}

func decodeKey(b []byte) Key {
	switch {
	case len(b) >= 3 && b[0] == 0x1b && b[1] == '[':
		switch b[2] {
		case 'A':
			return KeyUp
		case 'B':
			return KeyDown
		case 'C':
			return KeyRight
		case 'D':
			return KeyLeft
		}
		return ""
	case b[0] == 0x1b:
		return KeyEscape
	case b[0] == 0x03:
		return KeyInterrupt
	case b[0] == ' ':
		return KeySpace
	case b[0] == '\r' || b[0] == '\n':
		return KeyEnter
	}
	return Key(string(rune(b[0])))
}

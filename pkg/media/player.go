package media

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/reelhouse/cli/pkg/reels"
)

var (
	_ reels.Player        = (*TerminalPlayer)(nil)
	_ reels.AudioUnlocker = (*TerminalPlayer)(nil)
)

// TerminalPlayer "plays" reels by printing what is on screen. With
// requireUnlock set it refuses sound until UnlockAudio, the way browsers
// refuse unmuted autoplay before a user gesture.
type TerminalPlayer struct {
	mu            sync.Mutex
	out           io.Writer
	requireUnlock bool
	unlocked      bool
	current       string
	muted         bool
}

func NewTerminalPlayer(out io.Writer, requireUnlock bool) *TerminalPlayer {
	return &TerminalPlayer{out: out, requireUnlock: requireUnlock}
}

func (p *TerminalPlayer) Play(id string, muted bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !muted && p.requireUnlock && !p.unlocked {
		return reels.ErrAutoplayBlocked
	}
	p.current, p.muted = id, muted

	sound := color.GreenString("sound on")
	if muted {
		sound = color.YellowString("muted")
	}
	fmt.Fprintf(p.out, "%s %s (%s)\n", color.CyanString("▶"), id, sound)
	return nil
}

func (p *TerminalPlayer) Pause(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == id {
		p.current = ""
	}
	fmt.Fprintf(p.out, "%s %s\n", color.HiBlackString("⏸"), id)
}

// UnlockAudio records the user's permission for sound
func (p *TerminalPlayer) UnlockAudio() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unlocked = true
}

// NowPlaying returns the playing reel id, or "" when paused
func (p *TerminalPlayer) NowPlaying() (id string, muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.muted
}

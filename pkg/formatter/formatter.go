// Package formatter turns posts, comments and reels into terminal text
package formatter

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/reelhouse/cli/pkg/api"
	"github.com/reelhouse/cli/pkg/reels"
)

var (
	Bold    = color.New(color.Bold)
	Faint   = color.New(color.Faint)
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Warning = color.New(color.FgYellow)
	Liked   = color.New(color.FgMagenta, color.Bold)
)

// PostHeaders are the column names for PostRows
var PostHeaders = []string{"ID", "Author", "Likes", "Comments", "Age", "Content"}

// Ago renders the time since t compactly ("3m", "2h", "5d")
func Ago(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// Truncate shortens s to at most n runes, flattening newlines
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

// Username renders a user for display, including users still pending
// hydration
func Username(u api.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.ID != "" {
		return u.ID
	}
	return "unknown"
}

func likes(set api.IDSet, count int, me string) string {
	s := fmt.Sprintf("%d", count)
	if me != "" && set.Has(me) {
		return Liked.Sprint("♥ " + s)
	}
	return s
}

// PostRows builds one table row per post. me marks posts the caller likes.
func PostRows(posts []api.Post, me string, now time.Time) [][]string {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		content := p.Content
		if p.Image != "" {
			content = "[image] " + content
		}
		rows = append(rows, []string{
			p.ID,
			Username(p.Author),
			likes(p.Likes, p.Likes.Len(), me),
			fmt.Sprintf("%d", len(p.Comments)),
			Ago(p.CreatedAt, now),
			Truncate(content, 60),
		})
	}
	return rows
}

// Post renders a post with its comment thread
func Post(p api.Post, me string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Bold.Sprint(Username(p.Author)), Faint.Sprintf("%s · %s", p.ID, Ago(p.CreatedAt, now)))
	if p.Content != "" {
		fmt.Fprintln(&b, p.Content)
	}
	if p.Image != "" {
		fmt.Fprintln(&b, Faint.Sprint("image: "+p.Image))
	}
	fmt.Fprintf(&b, "likes %s · comments %d\n", likes(p.Likes, p.Likes.Len(), me), len(p.Comments))
	b.WriteString(Comments(p.Comments, me, now))
	return b.String()
}

// Comments renders a comment thread with recomments indented under their
// comment
func Comments(comments []api.Comment, me string, now time.Time) string {
	var b strings.Builder
	for _, c := range comments {
		fmt.Fprintf(&b, "  %s %s %s\n", Bold.Sprint(Username(c.User)), c.Text, meta(c.ID, c.CreatedAt, c.Likes, c.LikeCount, me, now))
		for _, r := range c.Recomments {
			fmt.Fprintf(&b, "    ↳ %s %s %s\n", Bold.Sprint(Username(r.User)), r.Text, meta(r.ID, r.CreatedAt, r.Likes, r.LikeCount, me, now))
		}
	}
	return b.String()
}

func meta(id string, at time.Time, set api.IDSet, count int, me string, now time.Time) string {
	if strings.HasPrefix(id, "temp-") {
		return Faint.Sprint("(sending…)")
	}
	return Faint.Sprintf("[%s · %s · ", id, Ago(at, now)) + likes(set, count, me) + Faint.Sprint("]")
}

// ReelView renders the active reel of a feed snapshot together with the
// feed's status line
func ReelView(v reels.View, me string, now time.Time) string {
	var b strings.Builder

	item, ok := v.ActiveItem()
	switch {
	case ok:
		r := item.Reel
		fmt.Fprintf(&b, "%s %s\n", Bold.Sprintf("[%d/%d]", v.Active+1, len(v.Items)), Faint.Sprint(r.ID))
		fmt.Fprintf(&b, "%s %s\n", Bold.Sprint(Username(r.Author)), Faint.Sprint(Ago(r.CreatedAt, now)))
		if r.Caption != "" {
			fmt.Fprintln(&b, r.Caption)
		}
		if r.Music != "" {
			fmt.Fprintln(&b, Info.Sprint("♪ "+r.Music))
		}
		fmt.Fprintf(&b, "likes %s · comments %d · %s\n", likes(r.Likes, r.Likes.Len(), me), len(r.Comments), mediaState(item))
	case v.Empty != reels.EmptyNone:
		fmt.Fprintln(&b, Faint.Sprint(string(v.Empty)))
	case v.Loading:
		fmt.Fprintln(&b, Faint.Sprint("Loading reels…"))
	}

	if v.Err != nil {
		fmt.Fprintln(&b, Error.Sprint("Could not load reels: "+v.Err.Error()))
	}
	b.WriteString(status(v))
	return b.String()
}

func mediaState(it reels.ItemView) string {
	switch {
	case it.State == reels.Failed:
		return Error.Sprint("video unavailable")
	case it.PausedByUser:
		return Warning.Sprint("paused")
	}
	return it.State.String()
}

func status(v reels.View) string {
	var flags []string
	flags = append(flags, string(v.Filter))
	if v.Muted {
		flags = append(flags, "muted")
	}
	if v.AudioLocked {
		flags = append(flags, "press u for sound")
	}
	if v.DataSaver {
		flags = append(flags, "data saver")
	}
	if v.Loading {
		flags = append(flags, "loading")
	} else if !v.HasMore && len(v.Items) > 0 {
		flags = append(flags, "end of feed")
	}
	return Faint.Sprint(strings.Join(flags, " · ")) + "\n"
}

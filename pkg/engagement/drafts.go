package engagement

import "github.com/reelhouse/cli/pkg/api"

// TargetKind says what a comment input box is attached to
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
	TargetReel    TargetKind = "reel"
)

// Target identifies one comment input box
type Target struct {
	Kind      TargetKind
	ID        string
	CommentID string
}

func PostTarget(postID string) Target { return Target{Kind: TargetPost, ID: postID} }

func ReelTarget(reelID string) Target { return Target{Kind: TargetReel, ID: reelID} }

// CommentTarget is the reply box under a post comment
func CommentTarget(postID, commentID string) Target {
	return Target{Kind: TargetComment, ID: postID, CommentID: commentID}
}

// SetDraft records text typed into a box
func (c *Controller) SetDraft(t Target, text string) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if text == "" {
		delete(c.store.drafts, t)
		return
	}
	c.store.drafts[t] = text
}

// Draft returns the text in a box
func (c *Controller) Draft(t Target) string {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.store.drafts[t]
}

// Modal is the "all comments" view of one post or reel. It holds its own
// copy of the comment list, kept equal to the owner's after every change.
type Modal struct {
	Kind     TargetKind
	ID       string
	Comments []api.Comment
}

// OpenComments opens the modal on a post or reel already in the store
func (c *Controller) OpenComments(kind TargetKind, id string) bool {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if c.store.comments(kind, id) == nil {
		return false
	}
	c.store.modal = &Modal{Kind: kind, ID: id}
	c.store.syncModal()
	return true
}

func (c *Controller) CloseComments() {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.modal = nil
}

// CommentsModal returns a copy of the open modal
func (c *Controller) CommentsModal() (Modal, bool) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if c.store.modal == nil {
		return Modal{}, false
	}
	m := *c.store.modal
	m.Comments = cloneComments(m.Comments)
	return m, true
}

// syncModal recopies the owner's comments; an owner that disappeared closes
// the modal
func (s *Store) syncModal() {
	if s.modal == nil {
		return
	}
	list := s.comments(s.modal.Kind, s.modal.ID)
	if list == nil {
		s.modal = nil
		return
	}
	s.modal.Comments = cloneComments(*list)
}

func cloneComments(in []api.Comment) []api.Comment {
	out := make([]api.Comment, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

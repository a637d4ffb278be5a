package api

// UnknownUsername labels users the backend did not populate.
const UnknownUsername = "unknown"

// Ingestion defaults are applied once here so the rest of the client can rely
// on non-nil lists and a displayable user on every entity.

// Normalize fills defaults on a user
func (u *User) Normalize() {
	if u.ID == "" && u.Username == "" {
		u.Username = UnknownUsername
	}
	if u.Followers == nil {
		u.Followers = IDSet{}
	}
	if u.Following == nil {
		u.Following = IDSet{}
	}
}

// Normalize fills defaults on a post and everything nested in it
func (p *Post) Normalize() {
	p.Author.Normalize()
	if p.Likes == nil {
		p.Likes = IDSet{}
	}
	p.Comments = normalizeComments(p.Comments)
}

// Normalize fills defaults on a comment and its recomments
func (c *Comment) Normalize() {
	c.User.Normalize()
	if c.Likes == nil {
		c.Likes = IDSet{}
	}
	if c.LikeCount < c.Likes.Len() {
		c.LikeCount = c.Likes.Len()
	}
	if c.Recomments == nil {
		c.Recomments = []Recomment{}
	}
	for i := range c.Recomments {
		c.Recomments[i].Normalize()
	}
	if c.RecommentCount < len(c.Recomments) {
		c.RecommentCount = len(c.Recomments)
	}
}

// Normalize fills defaults on a recomment
func (r *Recomment) Normalize() {
	r.User.Normalize()
	if r.Likes == nil {
		r.Likes = IDSet{}
	}
	if r.LikeCount < r.Likes.Len() {
		r.LikeCount = r.Likes.Len()
	}
}

// Normalize fills defaults on a reel and its comments
func (r *Reel) Normalize() {
	r.Author.Normalize()
	if r.Likes == nil {
		r.Likes = IDSet{}
	}
	r.Comments = normalizeComments(r.Comments)
}

func normalizeComments(in []Comment) []Comment {
	if in == nil {
		return []Comment{}
	}
	for i := range in {
		in[i].Normalize()
	}
	return in
}

// NormalizePosts normalizes every post in place
func NormalizePosts(posts []Post) []Post {
	if posts == nil {
		return []Post{}
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts
}

// NormalizeReels normalizes every reel in place
func NormalizeReels(reels []Reel) []Reel {
	if reels == nil {
		return []Reel{}
	}
	for i := range reels {
		reels[i].Normalize()
	}
	return reels
}

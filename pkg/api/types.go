package api

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// json is the codec used for every request and response body.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IDSet is an ordered set of user ids. The backend encodes membership lists
// (likes, followers, following) as bare ids, as objects carrying _id, or as
// objects nesting the user under "user"; all three decode to plain ids.
type IDSet []string

// UnmarshalJSON accepts every membership encoding the backend produces
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(IDSet, 0, len(raw))
	for _, item := range raw {
		if id := memberID(item); id != "" {
			out.Add(id)
		}
	}
	*s = out
	return nil
}

// memberID extracts a user id from one element of a membership list. When an
// element nests a user, the nested user wins over the element's own _id,
// which is the id of the like record rather than of the liker.
func memberID(item interface{}) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]interface{}:
		if user, ok := v["user"]; ok && user != nil {
			if id := memberID(user); id != "" {
				return id
			}
		}
		if id, ok := v["_id"].(string); ok {
			return id
		}
		if id, ok := v["id"].(string); ok {
			return id
		}
	}
	return ""
}

// Has reports whether id is in the set
func (s IDSet) Has(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add inserts id if absent and reports whether the set changed
func (s *IDSet) Add(id string) bool {
	if id == "" || s.Has(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

// Remove deletes id and reports whether the set changed
func (s *IDSet) Remove(id string) bool {
	for i, v := range *s {
		if v == id {
			*s = append((*s)[:i:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle flips membership of id and reports whether id is now a member
func (s *IDSet) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

// Len returns the number of members
func (s IDSet) Len() int {
	return len(s)
}

// Clone returns an independent copy
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both sets hold the same members, ignoring order
func (s IDSet) Equal(other IDSet) bool {
	if len(s) != len(other) {
		return false
	}
	for _, id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// User is a user as embedded in posts, comments and reels, or as returned by
// the user endpoints. Embedded users may arrive as a bare id pending
// hydration.
type User struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Followers      IDSet  `json:"followers"`
	Following      IDSet  `json:"following"`
}

type userJSON struct {
	ID             string `json:"_id"`
	AltID          string `json:"id"`
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
	Followers      IDSet  `json:"followers"`
	Following      IDSet  `json:"following"`
}

// UnmarshalJSON accepts a bare id string or a user object
func (u *User) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*u = User{ID: id}
		return nil
	}
	if string(data) == "null" {
		*u = User{}
		return nil
	}

	var raw userJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id := raw.ID
	if id == "" {
		id = raw.AltID
	}
	if id == "" {
		id = raw.UserID
	}
	*u = User{
		ID:             id,
		Username:       raw.Username,
		ProfilePicture: raw.ProfilePicture,
		Followers:      raw.Followers,
		Following:      raw.Following,
	}
	return nil
}

// Hydrated reports whether the user carries more than an id
func (u User) Hydrated() bool {
	return u.Username != ""
}

// Clone returns a deep copy
func (u User) Clone() User {
	u.Followers = u.Followers.Clone()
	u.Following = u.Following.Clone()
	return u
}

// Post is a feed post
type Post struct {
	ID        string    `json:"_id"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     IDSet     `json:"likes"`
	Comments  []Comment `json:"comments"`
}

// Clone returns a deep copy
func (p Post) Clone() Post {
	p.Author = p.Author.Clone()
	p.Likes = p.Likes.Clone()
	p.Comments = cloneComments(p.Comments)
	return p
}

// Comment is a comment on a post or reel
type Comment struct {
	ID             string      `json:"_id"`
	User           User        `json:"user"`
	Text           string      `json:"text"`
	CreatedAt      time.Time   `json:"createdAt"`
	Likes          IDSet       `json:"likes"`
	LikeCount      int         `json:"likeCount"`
	Recomments     []Recomment `json:"recomments"`
	RecommentCount int         `json:"recommentCount"`
}

// Clone returns a deep copy
func (c Comment) Clone() Comment {
	c.User = c.User.Clone()
	c.Likes = c.Likes.Clone()
	recomments := make([]Recomment, len(c.Recomments))
	for i, r := range c.Recomments {
		recomments[i] = r.Clone()
	}
	c.Recomments = recomments
	return c
}

func cloneComments(in []Comment) []Comment {
	out := make([]Comment, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// Recomment is a reply nested one level under a comment
type Recomment struct {
	ID        string    `json:"_id"`
	User      User      `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     IDSet     `json:"likes"`
	LikeCount int       `json:"likeCount"`
}

// Clone returns a deep copy
func (r Recomment) Clone() Recomment {
	r.User = r.User.Clone()
	r.Likes = r.Likes.Clone()
	return r
}

// Reel is a short video in the reel feed
type Reel struct {
	ID        string    `json:"_id"`
	Author    User      `json:"author"`
	VideoURL  string    `json:"videoUrl"`
	Caption   string    `json:"caption"`
	Music     string    `json:"music,omitempty"`
	Likes     IDSet     `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy
func (r Reel) Clone() Reel {
	r.Author = r.Author.Clone()
	r.Likes = r.Likes.Clone()
	r.Comments = cloneComments(r.Comments)
	return r
}

// VisitRequest is the analytics beacon payload
type VisitRequest struct {
	UserID   string `json:"userId"`
	Page     string `json:"page"`
	Duration int64  `json:"duration"`
}

// ErrorResponse is the error body the backend sends with non-2xx statuses
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Msg     string `json:"msg"`
}

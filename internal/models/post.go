package models

import "time"

// Post is a blog entry owned by the user that created it.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsHidden  bool      `json:"isHidden"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Viewer is the requester side of the visibility rules.
type Viewer struct {
	ID   int64
	Type UserType
}

func (v Viewer) IsAdmin() bool {
	return v.Type == UserTypeAdmin
}

// VisibleTo reports whether v may see the post in a listing. Admins get the
// same rule as bloggers: published posts plus their own.
func (p Post) VisibleTo(v Viewer) bool {
	return !p.IsHidden || p.AuthorID == v.ID
}

// EditableBy reports whether an update issued by v touches the post.
func (p Post) EditableBy(v Viewer) bool {
	return p.AuthorID == v.ID
}

// DeletableBy reports whether a delete issued by v removes the post.
// Authorship is always required; hidden posts additionally need an admin.
func (p Post) DeletableBy(v Viewer) bool {
	return p.AuthorID == v.ID && (v.IsAdmin() || !p.IsHidden)
}

// PostChanges lists the fields an update may set; nil means unchanged.
type PostChanges struct {
	Title    *string
	Content  *string
	IsHidden *bool
}

// Apply copies the non-nil changes onto p.
func (c PostChanges) Apply(p *Post) {
	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.Content != nil {
		p.Content = *c.Content
	}
	if c.IsHidden != nil {
		p.IsHidden = *c.IsHidden
	}
}

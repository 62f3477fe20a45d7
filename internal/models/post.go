package models

import "time"

// Post is a unit of content. Author and group survive the post and are
// cleared, not cascaded, when they are deleted.
type Post struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"not null;index"`
	AuthorID *uint     `json:"author_id" gorm:"index"`
	Author   *User     `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	GroupID  *uint     `json:"group_id" gorm:"index"`
	Group    *Group    `json:"-" gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
	Image    *string   `json:"image,omitempty" gorm:"size:100"`
}

// PostFilter narrows a post listing to one feed scope. Nil fields are ignored.
type PostFilter struct {
	GroupID    *uint
	AuthorID   *uint
	FollowerID *uint // posts whose author is followed by this user
}

// PostRequest is the text part of the multipart post form; the image is read separately.
type PostRequest struct {
	Text  string `form:"text" json:"text" validate:"notblank"`
	Group string `form:"group" json:"group"`
}

// PostView is a post as returned by the API, with author and group resolved.
type PostView struct {
	ID       uint         `json:"id"`
	Text     string       `json:"text"`
	PubDate  time.Time    `json:"pub_date"`
	Author   *UserCompact `json:"author"`
	Group    *Group       `json:"group"`
	ImageURL string       `json:"image_url,omitempty"`
}

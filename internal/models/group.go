package models

// Group is a named category posts can be filed under.
type Group struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"size:100;uniqueIndex;not null"`
	Slug        string  `json:"slug" gorm:"size:40;uniqueIndex;not null"`
	Description *string `json:"description,omitempty" gorm:"size:2000"`
}

// CreateGroupRequest defines the request body for creating a group
type CreateGroupRequest struct {
	Title       string `json:"title" form:"title" validate:"notblank,max=100"`
	Slug        string `json:"slug" form:"slug" validate:"required,max=40,slug"`
	Description string `json:"description" form:"description" validate:"max=2000"`
}

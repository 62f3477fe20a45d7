package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account that can author posts and comments and follow other users.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email       *string   `json:"-" gorm:"size:254;uniqueIndex"`
	Password    string    `json:"-"` // bcrypt hash
	FirebaseUID *string   `json:"-" gorm:"size:128;uniqueIndex"`
	IsStaff     bool      `json:"is_staff" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserCompact is the author block embedded in post and comment payloads
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// ToCompact strips a user down to its public identity.
func (u *User) ToCompact() *UserCompact {
	if u == nil {
		return nil
	}
	return &UserCompact{ID: u.ID, Username: u.Username}
}

type CreateLocalUserRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=1,max=150,username"`
	Email    string `json:"email" form:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

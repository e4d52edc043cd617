package models

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is a registered account (PostgreSQL)
type User struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	Username           string     `json:"username" gorm:"size:20;uniqueIndex;not null"`
	Fullname           string     `json:"fullname" gorm:"not null"`
	Email              string     `json:"email" gorm:"uniqueIndex;not null"`
	Password           string     `json:"-" gorm:"not null"`
	ImgURL             string     `json:"imgUrl"`
	Bio                string     `json:"bio"`
	IsVerified         bool       `json:"isVerified"`
	IsAdmin            bool       `json:"isAdmin"`
	IsBot              bool       `json:"isBot"`
	IsApprovedLocation bool       `json:"isApprovedLocation"`
	FollowersCount     int        `json:"followersCount" gorm:"not null;default:0"`
	FollowingCount     int        `json:"followingCount" gorm:"not null;default:0"`
	Active             bool       `json:"-" gorm:"not null;default:true;index"`
	FirebaseUID        *string    `json:"-" gorm:"uniqueIndex"`
	PasswordChangedAt  *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ChangedPasswordAfter reports whether the password was changed after a token was issued.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Truncate(time.Second).After(issuedAt)
}

// Mini returns the embedded author shape.
func (u *User) Mini() MiniUser {
	return MiniUser{ID: u.ID, Username: u.Username, Fullname: u.Fullname, ImgURL: u.ImgURL}
}

// MiniUser is the author shape embedded into posts
type MiniUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	ImgURL   string `json:"imgUrl"`
}

type SignupRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Fullname        string `json:"fullname" validate:"required,min=1,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=20"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UpdateUserRequest lists the only profile fields a user may change directly.
type UpdateUserRequest struct {
	Fullname *string `json:"fullname" validate:"omitempty,min=1,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Bio      *string `json:"bio" validate:"omitempty,max=160"`
	ImgURL   *string `json:"imgUrl" validate:"omitempty,url"`
}

// Updates returns the column map for a partial update, or nil when nothing was sent.
func (r UpdateUserRequest) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.Fullname != nil {
		updates["fullname"] = *r.Fullname
	}
	if r.Email != nil {
		updates["email"] = *r.Email
	}
	if r.Bio != nil {
		updates["bio"] = *r.Bio
	}
	if r.ImgURL != nil {
		updates["img_url"] = *r.ImgURL
	}
	if len(updates) == 0 {
		return nil
	}
	return updates
}

// AuthResult is returned by signup and the login endpoints.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// JwtCustomClaims carries the user id in the subject claim.
type JwtCustomClaims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *JwtCustomClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

package models

import "time"

// Role is the privilege level chosen at registration.
type Role string

const (
	RoleAuthor Role = "author"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAuthor || r == RoleAdmin
}

// UserModel is a registered account.
type UserModel struct {
	Base
	Username     string `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string `json:"email"    gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string `json:"-"        gorm:"column:password_hash;not null"`
	Role         Role   `json:"role"     gorm:"type:varchar(20);not null;default:author"`
}

func (UserModel) TableName() string { return "users" }

// PublicUser is the part of a user that may leave the server.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *UserModel) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

package domain

import "time"

type UserRole string

const (
	RoleRenter UserRole = "renter"
	RoleOwner  UserRole = "owner"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleRenter || r == RoleOwner || r == RoleAdmin
}

// User is both a renter and, with RoleOwner, a lister of items.
// TrustScore caches round(mean(RenterReview.TrustScore)) for the user as renter.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Email        string    `json:"email,omitempty" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"type:varchar(16);not null;index"`
	TrustScore   *float64  `json:"trustScore"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// PublicUser is the subset of a user shown to other users.
type PublicUser struct {
	ID         int64    `json:"id"`
	Username   string   `json:"username"`
	Role       UserRole `json:"role"`
	TrustScore *float64 `json:"trustScore"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Role: u.Role, TrustScore: u.TrustScore}
}

package repository

import "gorm.io/gorm"

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Page is a limit/offset window. Zero values fall back to the defaults.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) normalize() Page {
	if p.Limit <= 0 || p.Limit > maxLimit {
		p.Limit = defaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func publicUserColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "role", "trust_score")
}

package domain

import "time"

// Rental is created once per confirmed booking and never modified afterwards.
type Rental struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"userId" gorm:"not null;index"`
	ItemID    int64     `json:"itemId" gorm:"not null;index"`
	StartDate time.Time `json:"startDate" gorm:"not null"`
	EndDate   time.Time `json:"endDate" gorm:"not null"`
	Days      int       `json:"days" gorm:"not null"`
	TotalCost float64   `json:"totalCost" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Item *Item `json:"item,omitempty" gorm:"foreignKey:ItemID;references:ID"`
}

func (Rental) TableName() string { return "rentals" }

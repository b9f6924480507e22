package domain

import (
	"time"
)

// Message is a directed message between two registered users. Rows are
// append-only; only ReadAt is ever mutated after creation.
type Message struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	FromUsername string     `json:"fromUsername" gorm:"index;not null"`
	ToUsername   string     `json:"toUsername" gorm:"index;not null"`
	Body         string     `json:"body" gorm:"type:text"`
	SentAt       time.Time  `json:"sentAt"`
	ReadAt       *time.Time `json:"readAt"`

	FromUser *User `json:"-" gorm:"foreignKey:FromUsername;references:Username"`
	ToUser   *User `json:"-" gorm:"foreignKey:ToUsername;references:Username"`
}

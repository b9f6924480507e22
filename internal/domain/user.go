package domain

import (
	"time"
)

type User struct {
	Username    string     `json:"username" gorm:"primaryKey"`
	Password    string     `json:"-" gorm:"not null"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Phone       string     `json:"phone"`
	JoinAt      time.Time  `json:"joinAt"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

// PublicIdentity is the projection of a user that is safe to attach to
// directory listings and message counterparts. The password hash never
// leaves the service layer.
type PublicIdentity struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func (u *User) Public() PublicIdentity {
	return PublicIdentity{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

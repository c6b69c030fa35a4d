package account

import "time"

// Account is a lightweight, password-less identity used by survey
// respondents. UserID is a 64-character opaque identifier, server-generated
// for guests and client-supplied otherwise. Usernames are display names and
// carry no uniqueness constraint.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex" json:"user_id"`
	Username  string    `gorm:"size:150;not null" json:"username"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Account) TableName() string { return "accounts" }

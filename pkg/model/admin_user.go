package model

import "time"

// AdminUser is an administrator account. The password is stored as a bcrypt
// hash and compared on login and on the re-authentication gate before delete.
type AdminUser struct {
	Email        string    `gorm:"primaryKey;column:email"`
	PasswordHash []byte    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (u AdminUser) TableName() string {
	return "admin_users"
}

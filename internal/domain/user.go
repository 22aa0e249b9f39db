// Package domain defines the application's data structures (database models
// and the serialized template document shape).
package domain

import "time"

// User represents an account. A user registered through OAuth has no
// password hash; a locally registered user has no provider ids.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_email" json:"email"`
	Password  string    `gorm:"type:text" json:"-"`
	GoogleID  string    `gorm:"type:varchar(191);index:idx_google_id" json:"-"`
	FirstName string    `gorm:"type:varchar(191)" json:"firstName,omitempty"`
	LastName  string    `gorm:"type:varchar(191)" json:"lastName,omitempty"`
	Level     int       `gorm:"default:1" json:"level"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

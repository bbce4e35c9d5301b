// Package models contains the persisted entities and the JSON shapes built from them.
package models

import "time"

// User is an account that authors posts and comments. Its JSON form is the
// nested author shape; profile endpoints build their own shapes.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"size:254;index" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	DateJoined time.Time `gorm:"autoCreateTime" json:"-"`
	Posts      []Post    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Comments   []Comment `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

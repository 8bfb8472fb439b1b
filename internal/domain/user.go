// Package domain holds the catalog entities shared by every layer.
package domain

// User is a post author. Email identifies the user.
type User struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Email string  `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"`
	Name  *string `gorm:"type:varchar(191)" json:"name"`
}

// TableName keeps the table name used by the existing catalog schema.
func (User) TableName() string {
	return "User"
}

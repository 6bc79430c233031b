package models

type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	LastName string `gorm:"not null" json:"last_name"`
	Email    string `gorm:"uniqueIndex;not null;size:100" json:"email"`
	// Stored credential token, compared by equality at login.
	// Not a real hash yet; replacing it with bcrypt is tracked separately.
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}

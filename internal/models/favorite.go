package models

// Favorite is the user<->movie join row. Composite primary key, no surrogate
// id; cascade deletes keep the table consistent when either side goes away.
type Favorite struct {
	UserID  int64 `gorm:"primaryKey" json:"user_id"`
	MovieID int64 `gorm:"primaryKey;index" json:"movie_id"`

	// Associations
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Movie *Movie `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE" json:"movie,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}

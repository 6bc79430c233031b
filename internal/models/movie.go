package models

type Movie struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	PosterURL   string `json:"poster_url"`
	Genre       string `json:"genre"`
	IsPopular   bool   `gorm:"default:false" json:"is_popular"`
}

func (Movie) TableName() string {
	return "movies"
}

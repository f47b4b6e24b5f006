package model

import "time"

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
)

// swagger:model User
type User struct {
	UUIDBase
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Name      string    `gorm:"size:255" json:"name"`
	Language  Language  `gorm:"type:varchar(8);default:'en'" json:"language"`
	LastLogin time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

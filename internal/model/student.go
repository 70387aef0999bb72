package model

import "time"

type Student struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Login     string    `gorm:"not null;uniqueIndex" json:"login"`
	Password  string    `gorm:"not null" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

// PasswordMatches compares the candidate against the stored password by
// direct equality. The backing field is plaintext, kept for compatibility
// with existing account records; a hashing migration is a known open defect.
func (s *Student) PasswordMatches(candidate string) bool {
	return s.Password == candidate
}

package repository

import (
	"context"

	"apevault/internal/model"

	"gorm.io/gorm"
)

type StudentRepository interface {
	GetStudentByLogin(ctx context.Context, login string) (*model.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{
		db: db,
	}
}

// GetStudentByLogin returns the single account with the exact login handle,
// or nil when none exists.
func (r *studentRepository) GetStudentByLogin(ctx context.Context, login string) (*model.Student, error) {
	var student model.Student

	result := r.db.WithContext(ctx).Where("login = ?", login).First(&student)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}

		return nil, result.Error
	}

	return &student, nil
}

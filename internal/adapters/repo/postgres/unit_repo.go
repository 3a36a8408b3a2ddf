package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/induparts/catalog/internal/domain"
)

type UnitRepo struct{ db *gorm.DB }

func NewUnitRepo(db *gorm.DB) *UnitRepo { return &UnitRepo{db: db} }

func (r *UnitRepo) ByID(ctx context.Context, id uuid.UUID) (*domain.Unit, error) {
	var u domain.Unit
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UnitRepo) List(ctx context.Context) ([]domain.Unit, error) {
	var list []domain.Unit
	if err := r.db.WithContext(ctx).Order("dimension asc, name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *UnitRepo) Save(ctx context.Context, u *domain.Unit) error {
	return r.db.WithContext(ctx).Save(u).Error
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suavebarber/booking-core/internal/model"
)

type UserRepository interface {
	// Создать пользователя.
	Create(ctx context.Context, user *model.User) error
	// Найти пользователя по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// Все пользователи с админскими ролями.
	ListAdmins(ctx context.Context) ([]model.User, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) ListAdmins(ctx context.Context) ([]model.User, error) {
	var admins []model.User
	err := r.db.WithContext(ctx).
		Where("role IN ?", []model.UserRole{model.RoleAdmin, model.RoleSuperAdmin}).
		Find(&admins).Error
	if err != nil {
		return nil, err
	}
	return admins, nil
}

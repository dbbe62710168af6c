package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userDomain "github.com/ryderx/service-rental/internal/domain/user"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/domain"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName     string    `gorm:"type:varchar(150);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

// GormUserRepository implements user.Repository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", id.String())
		}
		return nil, domain.NewPersistenceError("failed to find user", err)
	}
	return toUserDomain(&model), nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var model UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", email)
		}
		return nil, domain.NewPersistenceError("failed to find user", err)
	}
	return toUserDomain(&model), nil
}

func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*userDomain.User, error) {
	users := make(map[uuid.UUID]*userDomain.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var models []UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, domain.NewPersistenceError("failed to find users", err)
	}
	for i := range models {
		users[models[i].ID] = toUserDomain(&models[i])
	}
	return users, nil
}

func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	model := UserModel{
		ID:           u.ID(),
		Email:        u.Email(),
		FullName:     u.FullName(),
		PasswordHash: u.PasswordHash(),
		Role:         string(u.Role()),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("email is already registered")
		}
		return domain.NewPersistenceError("failed to save user", err)
	}
	return nil
}

func toUserDomain(m *UserModel) *userDomain.User {
	return userDomain.Reconstruct(m.ID, m.Email, m.FullName, m.PasswordHash, auth.Role(m.Role), m.CreatedAt, m.UpdatedAt)
}

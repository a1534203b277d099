package services

import (
	"context"

	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/models"
	"gorm.io/gorm"
)

// UserService provides methods to interact with the users table
type UserService interface {
	// ListUsers returns one page of users ordered by ID and the total count
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	// GetUserByID retrieves a user by its ID
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	// GetUserByEmail retrieves a user by its unique email
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreateUser inserts a user, duplicate emails fail with gorm.ErrDuplicatedKey
	CreateUser(ctx context.Context, user *models.User) error
	// SetAdmin sets the is_admin flag of a user
	SetAdmin(ctx context.Context, id uint, isAdmin bool) error
}

type userService struct {
	db *gorm.DB
}

// NewUserService creates a new instance of UserService
func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := db.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Site").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser leaves uniqueness to the storage layer instead of checking first
func (s *userService) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *userService) SetAdmin(ctx context.Context, id uint, isAdmin bool) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_admin", isAdmin)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

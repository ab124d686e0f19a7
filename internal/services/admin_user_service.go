package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cafirm/website/backend/internal/models"
)

var ErrUsernameTaken = errors.New("username already exists")

// AdminUserService manages admin panel accounts.
type AdminUserService struct {
	store
}

func NewAdminUserService(db *gorm.DB, timeout time.Duration) *AdminUserService {
	return &AdminUserService{store: newStore(db, timeout)}
}

func (s *AdminUserService) List(ctx context.Context) ([]models.AdminUser, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	users := make([]models.AdminUser, 0)
	if err := db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *AdminUserService) GetByID(ctx context.Context, id uint) (*models.AdminUser, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var u models.AdminUser
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create stores a new account with a hashed password.
func (s *AdminUserService) Create(ctx context.Context, username, password, role string) (*models.AdminUser, error) {
	u := &models.AdminUser{Username: username, Role: role}
	if err := u.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	if err := db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create admin user: %w", err)
	}
	return u, nil
}

// Update changes username and role; the password is re-hashed only when a
// new one is supplied.
func (s *AdminUserService) Update(ctx context.Context, id uint, username, password, role string) (*models.AdminUser, error) {
	updates := map[string]interface{}{
		"username": username,
		"role":     role,
	}
	if password != "" {
		var u models.AdminUser
		if err := u.SetPassword(password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password"] = u.PasswordHash
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Model(&models.AdminUser{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("update admin user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	var u models.AdminUser
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes an account and resynchronizes the id sequence.
func (s *AdminUserService) Delete(ctx context.Context, id uint) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.AdminUser{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete admin user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return resyncSequence(tx, models.AdminUser{}.TableName())
	})
}

// Count returns the number of accounts.
func (s *AdminUserService) Count(ctx context.Context) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var n int64
	err := db.Model(&models.AdminUser{}).Count(&n).Error
	return n, err
}

package gorm

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alnpaa/certify/pkg/model"
	"github.com/alnpaa/certify/pkg/server/store"
)

// Ensure AdminsStore implements store.AdminsStore
var _ store.AdminsStore = (*AdminsStore)(nil)

// AdminsStore implements store.AdminsStore using GORM
type AdminsStore struct {
	db *gorm.DB
}

// NewAdminsStore creates a new AdminsStore
func NewAdminsStore(db *gorm.DB) *AdminsStore {
	return &AdminsStore{db: db}
}

// FetchAdmin retrieves an admin user by email.
func (s *AdminsStore) FetchAdmin(email string) (*store.AdminUser, error) {
	var row model.AdminUser
	tx := s.db.Where("email = ?", email).First(&row)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to fetch admin user: %w", tx.Error)
	}

	return &store.AdminUser{
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}, nil
}

// UpsertAdmin creates an admin user or replaces its password hash.
func (s *AdminsStore) UpsertAdmin(email string, passwordHash []byte) error {
	row := model.AdminUser{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert admin user: %w", err)
	}
	return nil
}

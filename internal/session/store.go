package session

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/condo-admin/internal/models"
	"gorm.io/gorm"
)

// Store persists sessions through gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, row *models.Session) error {
	return s.db.WithContext(ctx).Create(row).Error
}

// Get returns the session or ErrNoSession.
func (s *Store) Get(ctx context.Context, id string) (*models.Session, error) {
	var row models.Session
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error
}

func (s *Store) SaveUser(ctx context.Context, id string, userJSON []byte, refreshedAt time.Time) error {
	return s.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).
		Updates(map[string]any{"user_json": userJSON, "refreshed_at": refreshedAt}).Error
}

func (s *Store) SaveSelection(ctx context.Context, id, buildingID string) error {
	return s.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).
		Update("selected_building_id", buildingID).Error
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Session{}).Count(&n).Error
	return n, err
}

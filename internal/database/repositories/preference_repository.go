package repositories

import (
	"context"
	"errors"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/bbernstein/lacylights-netron/internal/database/models"
)

// PreferenceRepository handles preference data access.
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new PreferenceRepository.
func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// List returns all preferences ordered by key.
func (r *PreferenceRepository) List(ctx context.Context) ([]models.Preference, error) {
	var prefs []models.Preference
	result := r.db.WithContext(ctx).
		Order("key ASC").
		Find(&prefs)
	return prefs, result.Error
}

// Get returns a preference by key, or nil if it is not set.
func (r *PreferenceRepository) Get(ctx context.Context, key string) (*models.Preference, error) {
	var pref models.Preference
	result := r.db.WithContext(ctx).First(&pref, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &pref, nil
}

// Set creates or updates a preference by key.
func (r *PreferenceRepository) Set(ctx context.Context, key, value string) (*models.Preference, error) {
	var pref models.Preference

	result := r.db.WithContext(ctx).First(&pref, "key = ?", key)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		pref = models.Preference{
			ID:    cuid.New(),
			Key:   key,
			Value: value,
		}
		if err := r.db.WithContext(ctx).Create(&pref).Error; err != nil {
			return nil, err
		}
		return &pref, nil
	} else if result.Error != nil {
		return nil, result.Error
	}

	pref.Value = value
	if err := r.db.WithContext(ctx).Save(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

// Remove deletes a preference by key. Removing a missing key is not an error.
func (r *PreferenceRepository) Remove(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&models.Preference{}, "key = ?", key).Error
}

// Package models contains the persisted types.
package models

import "time"

// Preference is one operator interface preference, such as the theme or the
// collapsed state of the menu.
// Table: preferences
type Preference struct {
	ID        string    `gorm:"column:id;primaryKey" json:"-"`
	Key       string    `gorm:"column:key;uniqueIndex" json:"key"`
	Value     string    `gorm:"column:value" json:"value"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Preference) TableName() string { return "preferences" }

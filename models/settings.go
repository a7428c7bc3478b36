package models

import (
	"context"
	"errors"
	"time"

	"github.com/cajadigital/caja_backend/config"
	"github.com/cajadigital/caja_backend/utils"
	"gorm.io/gorm"
)

// Settings is a single-row table; GetSettings creates the default row on
// first read, the same way the dashboard frontend expects.
type Settings struct {
	ID           int       `gorm:"primary_key" json:"id"`
	StoreName    string    `gorm:"size:255;default:'Mi Negocio'" json:"store_name"`
	AdminName    string    `gorm:"size:255;default:'Admin'" json:"admin_name"`
	Currency     string    `gorm:"size:10;default:'USD'" json:"currency"`
	AdminPinHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

const settingsCacheKey = "Settings:current"

func GetSettings(ctx context.Context) (*Settings, error) {
	var settings Settings
	if found, err := config.GetRedisObject(settingsCacheKey, &settings); err == nil && found {
		return &settings, nil
	}

	db := config.GetDB()
	err := db.WithContext(ctx).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = Settings{StoreName: "Mi Negocio", AdminName: "Admin", Currency: "USD"}
		if err := db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	_ = config.SetRedisObject(settingsCacheKey, &settings, time.Hour)
	return &settings, nil
}

type SettingsUpdate struct {
	StoreName string `json:"store_name"`
	AdminName string `json:"admin_name"`
	Currency  string `json:"currency"`
	AdminPin  string `json:"admin_pin"`
}

func UpdateSettings(ctx context.Context, update SettingsUpdate) (*Settings, error) {
	settings, err := GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if update.StoreName != "" {
		settings.StoreName = update.StoreName
	}
	if update.AdminName != "" {
		settings.AdminName = update.AdminName
	}
	if update.Currency != "" {
		settings.Currency = update.Currency
	}
	if update.AdminPin != "" {
		hashed, err := utils.HashPin(update.AdminPin)
		if err != nil {
			return nil, err
		}
		settings.AdminPinHash = string(hashed)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(settingsCacheKey)
	return settings, nil
}

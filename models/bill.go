package models

import (
	"context"
	"errors"
	"time"

	"github.com/cajadigital/caja_backend/config"
	"github.com/cajadigital/caja_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Bill struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Title     string          `gorm:"size:255;not null" json:"title" binding:"required"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	DueDate   time.Time       `gorm:"not null;index" json:"due_date" binding:"required"`
	Provider  string          `gorm:"size:255" json:"provider"`
	Status    BillStatus      `gorm:"not null;type:enum('PENDING','PAID');default:'PENDING'" json:"status"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetBills(ctx context.Context) ([]Bill, error) {
	db := config.GetDB()
	var bills []Bill
	err := db.WithContext(ctx).Order("due_date asc").Find(&bills).Error
	return bills, err
}

// GetUpcomingBill returns the next unpaid bill due on or after now, or nil.
func GetUpcomingBill(ctx context.Context) (*Bill, error) {
	db := config.GetDB()
	var bill Bill
	err := db.WithContext(ctx).
		Where("status = ? AND due_date >= ?", BillStatusPending, time.Now()).
		Order("due_date asc").
		First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func CreateBill(ctx context.Context, bill *Bill) error {
	db := config.GetDB()
	if bill.Status == "" {
		bill.Status = BillStatusPending
	}
	return db.WithContext(ctx).Create(bill).Error
}

func UpdateBill(ctx context.Context, id int, status BillStatus, dueDate *time.Time) (*Bill, error) {
	db := config.GetDB()
	var bill Bill
	if err := db.WithContext(ctx).First(&bill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	updates := map[string]interface{}{}
	if status != "" {
		updates["status"] = status
	}
	if dueDate != nil {
		updates["due_date"] = *dueDate
	}
	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(&bill).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &bill, nil
}

func DeleteBill(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&Bill{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

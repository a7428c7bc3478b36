package models

import (
	"context"
	"errors"
	"time"

	"github.com/cajadigital/caja_backend/config"
	"github.com/cajadigital/caja_backend/utils"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID        int               `gorm:"primary_key" json:"id"`
	Amount    decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Type      TransactionType   `gorm:"not null;type:enum('INCOME','EXPENSE');index" json:"type"`
	Category  string            `gorm:"size:255;default:'General'" json:"category"`
	Method    string            `gorm:"size:255" json:"method"`
	Status    TransactionStatus `gorm:"not null;type:enum('COMPLETED','PENDING');default:'COMPLETED'" json:"status"`
	Date      time.Time         `gorm:"not null;index" json:"date"`
	Note      string            `gorm:"type:text" json:"note"`
	ImportKey *string           `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type BalanceSummary struct {
	Balance      decimal.Decimal `json:"balance"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
}

const balanceCacheKey = "Transaction:balance"

// historyWindow bounds the duplicate-detection history; daily imports only
// need recent days, not the whole table.
const historyWindow = 500

func GetRecentTransactions(ctx context.Context) ([]Transaction, error) {
	db := config.GetDB()
	var transactions []Transaction
	err := db.WithContext(ctx).
		Order("date desc").
		Limit(config.RecentTransactionLimit).
		Find(&transactions).Error
	return transactions, err
}

func CreateTransaction(ctx context.Context, transaction *Transaction) error {
	db := config.GetDB()
	if transaction.Date.IsZero() {
		transaction.Date = time.Now()
	}
	if transaction.Category == "" {
		transaction.Category = "General"
	}
	if transaction.Status == "" {
		transaction.Status = TransactionStatusCompleted
	}
	if err := db.WithContext(ctx).Create(transaction).Error; err != nil {
		return err
	}
	_ = config.RemoveRedisKey(balanceCacheKey)
	return nil
}

// CreateImportedTransaction persists one machine-imported sale. The write is
// idempotent on ImportKey: a duplicate-key error means the entry was already
// written by an earlier (possibly partially failed) commit, and is not an error.
// Returns false when the write was skipped as a duplicate.
func CreateImportedTransaction(ctx context.Context, transaction *Transaction) (bool, error) {
	db := config.GetDB()
	err := db.WithContext(ctx).Create(transaction).Error
	if err != nil {
		if isDuplicateKeyErr(err) {
			return false, nil
		}
		return false, err
	}
	_ = config.RemoveRedisKey(balanceCacheKey)
	return true, nil
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

func DeleteTransaction(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&Transaction{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	_ = config.RemoveRedisKey(balanceCacheKey)
	return nil
}

func GetBalance(ctx context.Context) (BalanceSummary, error) {
	var summary BalanceSummary
	if found, err := config.GetRedisObject(balanceCacheKey, &summary); err == nil && found {
		return summary, nil
	}

	db := config.GetDB()
	type row struct {
		Type  TransactionType
		Total decimal.Decimal
	}
	var rows []row
	err := db.WithContext(ctx).
		Model(&Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) as total").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return summary, err
	}

	for _, r := range rows {
		switch r.Type {
		case TransactionTypeIncome:
			summary.TotalIncome = r.Total
		case TransactionTypeExpense:
			summary.TotalExpense = r.Total
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	_ = config.SetRedisObject(balanceCacheKey, &summary, 5*time.Minute)
	return summary, nil
}

// ListRecentTransactionDates returns the set of days (YYYY-MM-DD) that already
// have at least one persisted transaction, over the recent history window.
// Used by the import pipeline to drop already-imported days.
func ListRecentTransactionDates(ctx context.Context) (map[string]struct{}, error) {
	db := config.GetDB()
	var dates []string
	err := db.WithContext(ctx).Raw(
		"SELECT DISTINCT DATE_FORMAT(date, '%Y-%m-%d') AS day FROM transactions ORDER BY day DESC LIMIT ?",
		historyWindow,
	).Scan(&dates).Error
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		existing[d] = struct{}{}
	}
	return existing, nil
}

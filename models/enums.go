package models

import (
	"database/sql/driver"
	"errors"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

func (t *TransactionType) Scan(value interface{}) error {
	s, err := scanEnumString(value)
	if err != nil {
		return err
	}
	switch TransactionType(s) {
	case TransactionTypeIncome, TransactionTypeExpense:
		*t = TransactionType(s)
		return nil
	}
	return errors.New("invalid transaction type")
}

func (t TransactionType) Value() (driver.Value, error) {
	return string(t), nil
}

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusPending   TransactionStatus = "PENDING"
)

func (t *TransactionStatus) Scan(value interface{}) error {
	s, err := scanEnumString(value)
	if err != nil {
		return err
	}
	switch TransactionStatus(s) {
	case TransactionStatusCompleted, TransactionStatusPending:
		*t = TransactionStatus(s)
		return nil
	}
	return errors.New("invalid transaction status")
}

func (t TransactionStatus) Value() (driver.Value, error) {
	return string(t), nil
}

type BillStatus string

const (
	BillStatusPending BillStatus = "PENDING"
	BillStatusPaid    BillStatus = "PAID"
)

func (t *BillStatus) Scan(value interface{}) error {
	s, err := scanEnumString(value)
	if err != nil {
		return err
	}
	switch BillStatus(s) {
	case BillStatusPending, BillStatusPaid:
		*t = BillStatus(s)
		return nil
	}
	return errors.New("invalid bill status")
}

func (t BillStatus) Value() (driver.Value, error) {
	return string(t), nil
}

func scanEnumString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", errors.New("enum value must be a string")
}

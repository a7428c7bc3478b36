// seed-dev loads a demo dataset (transactions, bills, default settings) into
// an empty development database.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-dev
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cajadigital/caja_backend/config"
	"github.com/cajadigital/caja_backend/models"
	"github.com/shopspring/decimal"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	models.MigrateTable()

	var count int64
	if err := db.WithContext(ctx).Model(&models.Transaction{}).Count(&count).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to inspect transactions: %v\n", err)
		os.Exit(1)
	}
	if count > 0 {
		fmt.Fprintln(os.Stderr, "transactions table is not empty; refusing to seed")
		os.Exit(2)
	}

	transactions := []models.Transaction{
		{
			Amount:   decimal.NewFromFloat(350.00),
			Type:     models.TransactionTypeIncome,
			Category: "Venta",
			Method:   "Efectivo",
			Status:   models.TransactionStatusCompleted,
			Date:     time.Date(2025, time.October, 12, 10, 23, 0, 0, time.UTC),
			Note:     "Venta Diaria #4092",
		},
		{
			Amount:   decimal.NewFromFloat(1250.00),
			Type:     models.TransactionTypeIncome,
			Category: "Factura",
			Method:   "Transferencia",
			Status:   models.TransactionStatusPending,
			Date:     time.Date(2025, time.October, 11, 16, 15, 0, 0, time.UTC),
			Note:     "Factura #001 - Cliente X",
		},
		{
			Amount:   decimal.NewFromFloat(420.00),
			Type:     models.TransactionTypeExpense,
			Category: "Servicios",
			Method:   "Transferencia",
			Status:   models.TransactionStatusCompleted,
			Date:     time.Date(2025, time.October, 12, 9, 0, 0, 0, time.UTC),
			Note:     "Pago de Servicios CFE",
		},
		{
			Amount:   decimal.NewFromFloat(890.00),
			Type:     models.TransactionTypeIncome,
			Category: "Venta",
			Method:   "Tarjeta",
			Status:   models.TransactionStatusCompleted,
			Date:     time.Date(2025, time.October, 12, 14, 30, 0, 0, time.UTC),
			Note:     "Venta Diaria #4091",
		},
	}

	for i := range transactions {
		if err := models.CreateTransaction(ctx, &transactions[i]); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed transaction %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	bills := []models.Bill{
		{
			Title:    "Alquiler del Local",
			Amount:   decimal.NewFromFloat(800.00),
			DueDate:  time.Now().AddDate(0, 0, 7),
			Provider: "Inmobiliaria Centro",
		},
		{
			Title:    "Electricidad",
			Amount:   decimal.NewFromFloat(120.00),
			DueDate:  time.Now().AddDate(0, 0, 14),
			Provider: "Corpoelec",
		},
	}

	for i := range bills {
		if err := models.CreateBill(ctx, &bills[i]); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed bill %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	if _, err := models.GetSettings(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create default settings: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeded %d transactions and %d bills\n", len(transactions), len(bills))
}

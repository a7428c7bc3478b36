package models

import (
	"log"

	"github.com/cajadigital/caja_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Transaction{}, &Bill{}, &Settings{},
	)
	if err != nil {
		log.Fatal(err)
	}
}

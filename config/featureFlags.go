package config

import (
	"os"
	"strings"
)

// ArchiveImportedWorkbooks keeps a copy of every imported reconciliation
// workbook in cloud storage so a disputed import can be replayed.
//
// Set via env:
// - ARCHIVE_IMPORTED_WORKBOOKS=true (also requires GCS_BUCKET)
func ArchiveImportedWorkbooks() bool {
	return boolFromEnv("ARCHIVE_IMPORTED_WORKBOOKS")
}

// RequireAdminToken protects mutating endpoints behind the admin PIN login.
//
// Set via env:
// - REQUIRE_ADMIN_TOKEN=true
func RequireAdminToken() bool {
	return boolFromEnv("REQUIRE_ADMIN_TOKEN")
}

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

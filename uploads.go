package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cajadigital/caja_backend/config"
	"github.com/cajadigital/caja_backend/importer"
	"github.com/cajadigital/caja_backend/middlewares"
	"github.com/cajadigital/caja_backend/models"
	"github.com/cajadigital/caja_backend/utils"
)

const maxWorkbookSizeBytes int64 = 10 * 1024 * 1024

// dbTransactionWriter adapts the transactions table to the committer's
// narrow persistence interface.
type dbTransactionWriter struct{}

func (dbTransactionWriter) CreateTransaction(ctx context.Context, record importer.TransactionRecord) error {
	date, err := time.Parse("2006-01-02", record.Date)
	if err != nil {
		return err
	}
	importKey := record.ImportKey
	transaction := models.Transaction{
		Amount:    record.Amount,
		Type:      models.TransactionType(record.Type),
		Category:  record.Category,
		Method:    record.Method,
		Status:    models.TransactionStatus(record.Status),
		Date:      date,
		Note:      record.Note,
		ImportKey: &importKey,
	}
	_, err = models.CreateImportedTransaction(ctx, &transaction)
	return err
}

func registerImportRoutes(api *gin.RouterGroup) {
	api.POST("/imports", middlewares.RequireAdmin(), parseImportHandler())
	api.GET("/imports/:id", importPreviewHandler())
	api.POST("/imports/:id/confirm", middlewares.RequireAdmin(), confirmImportHandler())
	api.DELETE("/imports/:id", middlewares.RequireAdmin(), cancelImportHandler())
}

func parseImportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx, span := tracer.Start(c.Request.Context(), "import.parse")
		defer span.End()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type: only .xlsx files are allowed"})
			return
		}
		if fileHeader.Size > maxWorkbookSizeBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
			return
		}

		// Keep a copy of the workbook so a disputed import can be replayed.
		// Best effort: an archive failure never blocks the import itself.
		if config.ArchiveImportedWorkbooks() {
			objectName := utils.GenerateUniqueFilename() + "_" + fileHeader.Filename
			if err := utils.ArchiveWorkbookToGCS(ctx, objectName, bytes.NewReader(content)); err != nil {
				config.LogError(logger, "uploads", "parseImportHandler", "workbook archive failed", objectName, err)
			}
		}

		existingDates, err := models.ListRecentTransactionDates(ctx)
		if err != nil {
			config.LogError(logger, "uploads", "parseImportHandler", "history read failed", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read transaction history"})
			return
		}

		batch, err := importer.ParseAndStage(bytes.NewReader(content), existingDates, importer.DefaultRuleset())
		if err != nil {
			var parseErr *importer.ParseError
			if errors.As(err, &parseErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
				return
			}
			config.LogError(logger, "uploads", "parseImportHandler", "scan failed", fileHeader.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not analyze workbook"})
			return
		}

		stagedImports.Add(batch)

		c.JSON(http.StatusOK, gin.H{
			"id":             batch.ID,
			"newDays":        batch.NewDays,
			"duplicateCount": batch.DuplicateCount,
			"totalEntries":   batch.TotalEntries(),
			"skipped":        batch.Skipped,
			"preview":        batch.Preview(),
		})
	}
}

func importPreviewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		batch, ok := stagedImports.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": utils.ErrorBatchNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":             batch.ID,
			"state":          batch.State(),
			"newDays":        batch.NewDays,
			"duplicateCount": batch.DuplicateCount,
			"totalEntries":   batch.TotalEntries(),
			"skipped":        batch.Skipped,
			"preview":        batch.Preview(),
		})
	}
}

func confirmImportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx, span := tracer.Start(c.Request.Context(), "import.commit")
		defer span.End()

		batch, ok := stagedImports.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": utils.ErrorBatchNotFound.Error()})
			return
		}

		// Serialize commits so two concurrent confirms cannot interleave.
		release, err := utils.ImportLock(ctx, "uploads", "confirmImportHandler")
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		defer release()

		importedCount, err := batch.Commit(ctx, dbTransactionWriter{})
		if err != nil {
			config.LogError(logger, "uploads", "confirmImportHandler", "commit failed", gin.H{
				"batchId":       batch.ID,
				"importedCount": importedCount,
			}, err)
			stagedImports.Remove(batch.ID)
			c.JSON(http.StatusBadGateway, gin.H{
				"importedCount": importedCount,
				"error":         err.Error(),
			})
			return
		}

		stagedImports.Remove(batch.ID)
		c.JSON(http.StatusOK, gin.H{"importedCount": importedCount})
	}
}

func cancelImportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		batch, ok := stagedImports.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": utils.ErrorBatchNotFound.Error()})
			return
		}
		if err := batch.Cancel(); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		stagedImports.Remove(batch.ID)
		c.JSON(http.StatusOK, gin.H{"message": "import cancelled"})
	}
}

package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cajadigital/caja_backend/config"
	"github.com/cajadigital/caja_backend/middlewares"
	"github.com/cajadigital/caja_backend/models"
	"github.com/cajadigital/caja_backend/utils"
)

type newTransactionRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Type     string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Category string          `json:"category"`
	Method   string          `json:"method"`
	Note     string          `json:"note"`
	Date     string          `json:"date"`
	Status   string          `json:"status" binding:"omitempty,oneof=COMPLETED PENDING"`
}

type newBillRequest struct {
	Title    string          `json:"title" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	DueDate  string          `json:"dueDate" binding:"required"`
	Provider string          `json:"provider"`
}

type updateBillRequest struct {
	Status  string `json:"status" binding:"omitempty,oneof=PENDING PAID"`
	DueDate string `json:"dueDate"`
}

type loginRequest struct {
	Pin string `json:"pin" binding:"required"`
}

func registerTransactionRoutes(api *gin.RouterGroup) {
	api.GET("/transactions", func(c *gin.Context) {
		transactions, err := models.GetRecentTransactions(c.Request.Context())
		if err != nil {
			config.LogError(config.GetLogger(), "routes", "GetTransactions", "query failed", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching transactions"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	})

	api.GET("/transactions/balance", func(c *gin.Context) {
		summary, err := models.GetBalance(c.Request.Context())
		if err != nil {
			config.LogError(config.GetLogger(), "routes", "GetBalance", "aggregate failed", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error calculating balance"})
			return
		}
		c.JSON(http.StatusOK, summary)
	})

	api.POST("/transactions", middlewares.RequireAdmin(), func(c *gin.Context) {
		var req newTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		date := time.Now()
		if req.Date != "" {
			parsed, err := parseDate(req.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
				return
			}
			date = parsed
		}

		transaction := models.Transaction{
			Amount:   req.Amount,
			Type:     models.TransactionType(req.Type),
			Category: req.Category,
			Method:   req.Method,
			Note:     req.Note,
			Date:     date,
			Status:   models.TransactionStatus(req.Status),
		}
		if err := models.CreateTransaction(c.Request.Context(), &transaction); err != nil {
			config.LogError(config.GetLogger(), "routes", "CreateTransaction", "create failed", req, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating transaction"})
			return
		}
		c.JSON(http.StatusOK, transaction)
	})

	api.DELETE("/transactions/:id", middlewares.RequireAdmin(), func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		if err := models.DeleteTransaction(c.Request.Context(), id); err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
				return
			}
			config.LogError(config.GetLogger(), "routes", "DeleteTransaction", "delete failed", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
	})
}

func registerBillRoutes(api *gin.RouterGroup) {
	api.GET("/bills", func(c *gin.Context) {
		bills, err := models.GetBills(c.Request.Context())
		if err != nil {
			config.LogError(config.GetLogger(), "routes", "GetBills", "query failed", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching bills"})
			return
		}
		c.JSON(http.StatusOK, bills)
	})

	api.GET("/bills/upcoming", func(c *gin.Context) {
		bill, err := models.GetUpcomingBill(c.Request.Context())
		if err != nil {
			config.LogError(config.GetLogger(), "routes", "GetUpcomingBill", "query failed", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching upcoming bill"})
			return
		}
		if bill == nil {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusOK, bill)
	})

	api.POST("/bills", middlewares.RequireAdmin(), func(c *gin.Context) {
		var req newBillRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		dueDate, err := parseDate(req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dueDate"})
			return
		}
		bill := models.Bill{
			Title:    req.Title,
			Amount:   req.Amount,
			DueDate:  dueDate,
			Provider: req.Provider,
		}
		if err := models.CreateBill(c.Request.Context(), &bill); err != nil {
			config.LogError(config.GetLogger(), "routes", "CreateBill", "create failed", req, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bill"})
			return
		}
		c.JSON(http.StatusOK, bill)
	})

	api.PUT("/bills/:id", middlewares.RequireAdmin(), func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		var req updateBillRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		var dueDate *time.Time
		if req.DueDate != "" {
			parsed, err := parseDate(req.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dueDate"})
				return
			}
			dueDate = &parsed
		}
		bill, err := models.UpdateBill(c.Request.Context(), id, models.BillStatus(req.Status), dueDate)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
				return
			}
			config.LogError(config.GetLogger(), "routes", "UpdateBill", "update failed", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bill"})
			return
		}
		c.JSON(http.StatusOK, bill)
	})

	api.DELETE("/bills/:id", middlewares.RequireAdmin(), func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		if err := models.DeleteBill(c.Request.Context(), id); err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
				return
			}
			config.LogError(config.GetLogger(), "routes", "DeleteBill", "delete failed", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bill"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Bill deleted"})
	})
}

func registerSettingsRoutes(api *gin.RouterGroup) {
	api.GET("/settings", func(c *gin.Context) {
		settings, err := models.GetSettings(c.Request.Context())
		if err != nil {
			config.LogError(config.GetLogger(), "routes", "GetSettings", "query failed", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
			return
		}
		c.JSON(http.StatusOK, settings)
	})

	api.PUT("/settings", middlewares.RequireAdmin(), func(c *gin.Context) {
		var update models.SettingsUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			respondBindError(c, err)
			return
		}
		settings, err := models.UpdateSettings(c.Request.Context(), update)
		if err != nil {
			config.LogError(config.GetLogger(), "routes", "UpdateSettings", "update failed", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
			return
		}
		c.JSON(http.StatusOK, settings)
	})
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		settings, err := models.GetSettings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
			return
		}
		if settings.AdminPinHash == "" {
			c.JSON(http.StatusConflict, gin.H{"error": "no admin pin configured"})
			return
		}
		if err := utils.ComparePin(settings.AdminPinHash, req.Pin); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid pin"})
			return
		}
		token, err := utils.JwtGenerate(settings.AdminName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

func respondBindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": utils.ProcessValidationErrors(err)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

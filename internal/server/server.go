// Package server exposes the ledger over HTTP.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fynance/ledger/internal/report"
	"github.com/fynance/ledger/internal/service"
	"github.com/fynance/ledger/internal/storage"
)

// Server wires the service layer to the HTTP routes.
type Server struct {
	customers *service.CustomerService
	txns      *service.TransactionService
	reports   *service.WeekReportService
	importer  *service.ImportService
	excel     *report.ExcelService
}

// New creates a Server over the given storage backend.
func New(store storage.Store) *Server {
	return &Server{
		customers: service.NewCustomerService(store),
		txns:      service.NewTransactionService(store),
		reports:   service.NewWeekReportService(store),
		importer:  service.NewImportService(store),
		excel:     report.NewExcelService(store),
	}
}

// Router builds the gin engine with all routes and middleware registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), httpMetrics(), cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	customers := api.Group("/customers")
	customers.POST("", s.registerCustomer)
	customers.POST("/import", s.importCustomers)
	customers.GET("/groups/all", s.listGroups)
	customers.GET("/:id", s.getCustomer)
	customers.PUT("/:id", s.updateCustomer)
	customers.DELETE("/:id", s.deleteCustomer)

	txns := api.Group("/txns")
	txns.POST("", s.createTransaction)
	txns.GET("/group", s.groupReport)
	txns.GET("/all_group", s.defaultGroupReport)
	txns.GET("/dashboard", s.dashboard)
	txns.PUT("/:id/update", s.updateTransaction)
	txns.DELETE("/:id/delete", s.deleteTransaction)

	api.GET("/reports/excel", s.excelReport)

	return r
}

// respondError maps service errors to HTTP responses. Unexpected errors are
// logged in full and surfaced as a generic message.
func respondError(c *gin.Context, err error) {
	var insufficient *service.InsufficientFundsError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":          insufficient.Error(),
			"availableBalance": insufficient.AvailableBalance,
		})
		return
	}
	if service.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if service.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	slog.Error("Request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

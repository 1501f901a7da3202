package server

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fynance/ledger/internal/service"
)

// createTransactionRequest accepts the amount as a JSON number or a numeric
// string; decimal handles both.
type createTransactionRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type"`
	Date   string          `json:"date"`
}

func (s *Server) createTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, ok := parseRequestDate(req.Date)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid date"})
			return
		}
		date = parsed
	}

	result, err := s.txns.Create(c.Request.Context(), service.CreateRequest{
		OwnerID: c.Query("owner"),
		Amount:  req.Amount,
		Type:    req.Type,
		Date:    date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateTransactionRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Date   *string          `json:"date"`
}

func (s *Server) updateTransaction(c *gin.Context) {
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	update := service.UpdateTxnRequest{Amount: req.Amount}
	if req.Date != nil {
		parsed, ok := parseRequestDate(*req.Date)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid date"})
			return
		}
		update.Date = &parsed
	}

	result, err := s.txns.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Deleted {
		c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
		return
	}
	c.JSON(http.StatusOK, result.Transaction)
}

func (s *Server) deleteTransaction(c *gin.Context) {
	if err := s.txns.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

func (s *Server) dashboard(c *gin.Context) {
	dashboard, err := s.txns.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// weekQuery extracts the weekIndex and year report parameters. weekIndex is
// required; year defaults to the current year via 0.
func weekQuery(c *gin.Context) (weekIndex, year int, ok bool) {
	weekIndex, err := strconv.Atoi(c.Query("weekIndex"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "weekIndex must be a non-negative integer"})
		return 0, 0, false
	}

	if y := c.Query("year"); y != "" {
		year, err = strconv.Atoi(y)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "year must be an integer"})
			return 0, 0, false
		}
	}
	return weekIndex, year, true
}

func (s *Server) groupReport(c *gin.Context) {
	group := c.Query("regGroup")
	if group == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Missing required query parameters: regGroup and weekIndex are required",
		})
		return
	}

	weekIndex, year, ok := weekQuery(c)
	if !ok {
		return
	}

	weekReport, err := s.reports.ForGroup(c.Request.Context(), group, weekIndex, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, weekReport)
}

func (s *Server) defaultGroupReport(c *gin.Context) {
	weekIndex, year, ok := weekQuery(c)
	if !ok {
		return
	}

	weekReport, err := s.reports.ForDefaultGroup(c.Request.Context(), weekIndex, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, weekReport)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) excelReport(c *gin.Context) {
	// Rendered into memory first so a failure still maps to a 500 instead
	// of a truncated download.
	var buf bytes.Buffer
	if err := s.excel.Write(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ledger-report.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

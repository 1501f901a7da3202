package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fynance/ledger/internal/service"
)

// acceptedDateLayouts are the formats request bodies may use for dates.
var acceptedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseRequestDate(s string) (time.Time, bool) {
	for _, layout := range acceptedDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type registerCustomerRequest struct {
	Name       string `json:"name"`
	Group      string `json:"group"`
	GroupIndex int    `json:"group_index"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	RegDate    string `json:"regDate"`
}

func (s *Server) registerCustomer(c *gin.Context) {
	var req registerCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	var regDate time.Time
	if req.RegDate != "" {
		parsed, ok := parseRequestDate(req.RegDate)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid regDate"})
			return
		}
		regDate = parsed
	}

	customer, err := s.customers.Register(c.Request.Context(), service.RegisterRequest{
		Name:       req.Name,
		Group:      req.Group,
		GroupIndex: req.GroupIndex,
		Address:    req.Address,
		Phone:      req.Phone,
		RegDate:    regDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (s *Server) getCustomer(c *gin.Context) {
	detail, err := s.customers.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updateCustomerRequest struct {
	Name       *string `json:"name"`
	Group      *string `json:"group"`
	GroupIndex *int    `json:"group_index"`
	Address    *string `json:"address"`
	Phone      *string `json:"phone"`
	RegDate    *string `json:"regDate"`
}

func (s *Server) updateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	update := service.UpdateRequest{
		Name:       req.Name,
		Group:      req.Group,
		GroupIndex: req.GroupIndex,
		Address:    req.Address,
		Phone:      req.Phone,
	}
	if req.RegDate != nil {
		parsed, ok := parseRequestDate(*req.RegDate)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid regDate"})
			return
		}
		update.RegDate = &parsed
	}

	customer, err := s.customers.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (s *Server) deleteCustomer(c *gin.Context) {
	if err := s.customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

func (s *Server) listGroups(c *gin.Context) {
	groups, err := s.customers.ListGroups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (s *Server) importCustomers(c *gin.Context) {
	var batch []service.RawCustomer
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	result, err := s.importer.Import(c.Request.Context(), batch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/opencanteen/mensa/internal/order/domain"
)

func (s *Server) ListOrders(c *gin.Context) {
	req := orderdomain.ListRequest{
		EmployeeCode: c.Query("employee_code"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "expected YYYY-MM-DD"))
			return
		}
		req.Date = &date
	}
	if raw := c.Query("served"); raw != "" {
		served, err := strconv.ParseBool(raw)
		if err != nil {
			AbortWithError(c, newValidationError("served", "invalid_served", "expected true or false"))
			return
		}
		req.Served = &served
	}

	items, err := s.orderSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetOrder(c *gin.Context) {
	resp, err := s.orderSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req orderdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ServeOrder(c *gin.Context) {
	resp, err := s.orderSvc.MarkServed(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteOrder(c *gin.Context) {
	if err := s.orderSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MealsServing reports how many servings of each scheduled meal are due on a
// date, defaulting to today when no date is given.
func (s *Server) MealsServing(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	rows, err := s.orderSvc.ServingCounts(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

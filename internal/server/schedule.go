package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	scheduledomain "github.com/opencanteen/mensa/internal/schedule/domain"
)

func (s *Server) ListSchedules(c *gin.Context) {
	var req scheduledomain.ListRequest
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			AbortWithError(c, newValidationError("from", "invalid_date", "expected YYYY-MM-DD"))
			return
		}
		req.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			AbortWithError(c, newValidationError("to", "invalid_date", "expected YYYY-MM-DD"))
			return
		}
		req.To = &to
	}

	items, err := s.scheduleSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetSchedule(c *gin.Context) {
	resp, err := s.scheduleSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateSchedule(c *gin.Context) {
	var req scheduledomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.scheduleSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateSchedule(c *gin.Context) {
	var req scheduledomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.scheduleSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteSchedule(c *gin.Context) {
	if err := s.scheduleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

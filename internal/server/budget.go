package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	budgetdomain "github.com/opencanteen/mensa/internal/budget/domain"
)

func (s *Server) ListBudgets(c *gin.Context) {
	items, err := s.budgetSvc.List(c.Request.Context(), budgetdomain.ListRequest{
		Period: c.Query("period"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetBudget(c *gin.Context) {
	resp, err := s.budgetSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateBudget(c *gin.Context) {
	var req budgetdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.budgetSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateBudget(c *gin.Context) {
	var req budgetdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.budgetSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteBudget(c *gin.Context) {
	if err := s.budgetSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

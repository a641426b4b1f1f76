package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	mealdomain "github.com/opencanteen/mensa/internal/meal/domain"
)

func (s *Server) ListMeals(c *gin.Context) {
	items, err := s.mealSvc.List(c.Request.Context(), mealdomain.ListRequest{
		Name: c.Query("name"),
		Tag:  c.Query("tag"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetMeal(c *gin.Context) {
	resp, err := s.mealSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateMeal(c *gin.Context) {
	var req mealdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.mealSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateMeal(c *gin.Context) {
	var req mealdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.mealSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteMeal(c *gin.Context) {
	if err := s.mealSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

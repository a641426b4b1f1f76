package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ingredientdomain "github.com/opencanteen/mensa/internal/ingredient/domain"
)

func (s *Server) ListIngredients(c *gin.Context) {
	items, err := s.ingredientSvc.List(c.Request.Context(), ingredientdomain.ListRequest{
		Name: c.Query("name"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetIngredient(c *gin.Context) {
	resp, err := s.ingredientSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateIngredient(c *gin.Context) {
	var req ingredientdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ingredientSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateIngredient(c *gin.Context) {
	var req ingredientdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.ingredientSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteIngredient(c *gin.Context) {
	if err := s.ingredientSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) IngredientPriceVariance(c *gin.Context) {
	rows, err := s.ingredientSvc.PriceVariance(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	adjustmentdomain "github.com/opencanteen/mensa/internal/adjustment/domain"
)

func (s *Server) ListAdjustments(c *gin.Context) {
	items, err := s.adjustmentSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetAdjustment(c *gin.Context) {
	resp, err := s.adjustmentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateAdjustment(c *gin.Context) {
	var req adjustmentdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.adjustmentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateAdjustment(c *gin.Context) {
	var req adjustmentdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.adjustmentSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteAdjustment(c *gin.Context) {
	if err := s.adjustmentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListIndividualAdjustments(c *gin.Context) {
	items, err := s.indiAdjustSvc.List(c.Request.Context(), adjustmentdomain.ListIndividualRequest{
		EmployeeCode: c.Query("employee_code"),
		Month:        c.Query("month"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetIndividualAdjustment(c *gin.Context) {
	resp, err := s.indiAdjustSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateIndividualAdjustment(c *gin.Context) {
	var req adjustmentdomain.CreateIndividualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.indiAdjustSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateIndividualAdjustment(c *gin.Context) {
	var req adjustmentdomain.UpdateIndividualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.indiAdjustSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteIndividualAdjustment(c *gin.Context) {
	if err := s.indiAdjustSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

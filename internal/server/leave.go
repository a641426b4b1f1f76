package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	leavedomain "github.com/opencanteen/mensa/internal/leave/domain"
)

func (s *Server) ListLeaveApplications(c *gin.Context) {
	items, err := s.leaveSvc.List(c.Request.Context(), leavedomain.ListRequest{
		EmployeeCode: c.Query("employee_code"),
		Status:       c.Query("status"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetLeaveApplication(c *gin.Context) {
	resp, err := s.leaveSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateLeaveApplication(c *gin.Context) {
	var req leavedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leaveSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateLeaveApplication(c *gin.Context) {
	var req leavedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.leaveSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteLeaveApplication(c *gin.Context) {
	if err := s.leaveSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ApproveLeaveApplication(c *gin.Context) {
	resp, err := s.leaveSvc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) RejectLeaveApplication(c *gin.Context) {
	resp, err := s.leaveSvc.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

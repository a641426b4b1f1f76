package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
)

func (s *Server) ListEmployees(c *gin.Context) {
	items, err := s.employeeSvc.List(c.Request.Context(), employeedomain.ListRequest{
		Name: c.Query("name"),
		Role: c.Query("role"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetEmployee(c *gin.Context) {
	resp, err := s.employeeSvc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateEmployee(c *gin.Context) {
	var req employeedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.employeeSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateEmployee(c *gin.Context) {
	var req employeedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Code = c.Param("code")

	resp, err := s.employeeSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteEmployee(c *gin.Context) {
	if err := s.employeeSvc.Delete(c.Request.Context(), c.Param("code")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportEmployees ingests a multipart CSV batch. When no organization_id form
// field is sent and exactly one organization exists, the batch lands there.
func (s *Server) ImportEmployees(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "missing_file", "csv file is required"))
		return
	}
	defer file.Close()

	orgID := c.PostForm("organization_id")
	if orgID == "" {
		orgs, err := s.organizationSvc.List(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if len(orgs) != 1 {
			AbortWithError(c, newValidationError("organization_id", "missing_organization", "organization_id is required"))
			return
		}
		orgID = orgs[0].ID
	}

	result, err := s.bulkImportSvc.Import(c.Request.Context(), orgID, file)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

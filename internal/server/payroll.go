package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetPayslip computes the payslip for an employee and month. With
// ?format=pdf the rendered document is streamed instead of the JSON
// breakdown. The month defaults to the current one.
func (s *Server) GetPayslip(c *gin.Context) {
	code := c.Param("code")
	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	if c.Query("format") == "pdf" {
		doc, err := s.payrollSvc.RenderPDF(c.Request.Context(), code, month)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		data, err := io.ReadAll(doc)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="payslip-`+code+`-`+month+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", data)
		return
	}

	slip, err := s.payrollSvc.Compute(c.Request.Context(), code, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, slip)
}

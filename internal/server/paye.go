package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	payedomain "github.com/opencanteen/mensa/internal/paye/domain"
)

func (s *Server) ListPayeSlabs(c *gin.Context) {
	items, err := s.payeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// ReplacePayeSlabs accepts either a bare array of slabs or an object wrapping
// them under "slabs". ShouldBindBodyWith caches the body so the second decode
// attempt still sees it.
func (s *Server) ReplacePayeSlabs(c *gin.Context) {
	var slabs []payedomain.Slab
	if err := c.ShouldBindBodyWith(&slabs, binding.JSON); err != nil {
		var wrapped struct {
			Slabs []payedomain.Slab `json:"slabs"`
		}
		if err := c.ShouldBindBodyWith(&wrapped, binding.JSON); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		slabs = wrapped.Slabs
	}

	items, err := s.payeSvc.ReplaceAll(c.Request.Context(), slabs)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

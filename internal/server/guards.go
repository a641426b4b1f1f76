package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opencanteen/mensa/internal/auth"
)

const (
	contextClaimsKey = "auth_claims"
	contextActorKey  = "auth_actor"

	actorUser  = "user"
	actorAdmin = "admin"
)

func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return parts[1], true
}

// UserAuthRequired admits requests carrying a valid employee token.
func (s *Server) UserAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		claims, err := s.userVerifier.Verify(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Set(contextClaimsKey, claims)
		c.Set(contextActorKey, actorUser)
		c.Next()
	}
}

// AdminAuthRequired admits requests carrying a valid super-admin token.
func (s *Server) AdminAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		claims, err := s.adminVerifier.Verify(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Set(contextClaimsKey, claims)
		c.Set(contextActorKey, actorAdmin)
		c.Next()
	}
}

// EitherAuthRequired tries the user verifier first and falls back to the
// super-admin verifier. Either one admits the request.
func (s *Server) EitherAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if claims, err := s.userVerifier.Verify(c.Request.Context(), token); err == nil {
			c.Set(contextClaimsKey, claims)
			c.Set(contextActorKey, actorUser)
			c.Next()
			return
		}

		claims, err := s.adminVerifier.Verify(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Set(contextClaimsKey, claims)
		c.Set(contextActorKey, actorAdmin)
		c.Next()
	}
}

// RequireRole gates a route on the actor's role. Super-admin tokens carry the
// role in the payload; user tokens resolve it from the employee record.
func (s *Server) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := s.actorRole(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		for _, allowed := range roles {
			if strings.EqualFold(role, allowed) {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

func (s *Server) actorRole(c *gin.Context) (string, error) {
	claims, ok := claimsFrom(c)
	if !ok {
		return "", ErrUnauthorized
	}

	actor, _ := c.Get(contextActorKey)
	if actor == actorAdmin {
		return claims.Role, nil
	}

	code := strings.TrimSpace(claims.EmployeeCode)
	if code == "" {
		return "", ErrForbidden
	}
	employee, err := s.employeeSvc.Get(c.Request.Context(), code)
	if err != nil {
		return "", ErrForbidden
	}
	return employee.Role, nil
}

func claimsFrom(c *gin.Context) (*auth.Claims, bool) {
	value, ok := c.Get(contextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// auth_middleware.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quickcart/internal/api"
	"quickcart/internal/model"
	"quickcart/internal/service"
)

// Claves del contexto de gin
const (
	KeyUserID          = "userID"
	KeyUserName        = "userName"
	KeyUserPhone       = "userPhone"
	KeyUserPermissions = "userPermissions"
	KeyIsAdmin         = "isAdmin"
	KeyGuestSession    = "guestSession"
)

const GuestSessionHeader = "X-Guest-Session"

// TokenValidator lo implementa service.AuthService.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*model.User, error)
}

// Middleware que valida el token y guarda la info del usuario en el contexto
func AuthMiddleware(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		if !authenticate(c, auth, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuth acepta invitados: sin token asigna (o reutiliza) una sesión
// de invitado. Un token presente pero inválido sí se rechaza.
func OptionalAuth(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearer(c); token != "" {
			if !authenticate(c, auth, token) {
				return
			}
			c.Next()
			return
		}

		session := strings.TrimSpace(c.GetHeader(GuestSessionHeader))
		if _, err := uuid.Parse(session); err != nil {
			session = uuid.NewString()
		}
		c.Set(KeyGuestSession, session)
		c.Header(GuestSessionHeader, session)
		c.Next()
	}
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func authenticate(c *gin.Context, auth TokenValidator, token string) bool {
	user, err := auth.ValidateToken(c.Request.Context(), token)
	if err != nil {
		status, msg := http.StatusUnauthorized, "invalid or expired token"
		switch {
		case errors.Is(err, service.ErrUserDisabled):
			status, msg = http.StatusForbidden, "user disabled"
		case errors.Is(err, service.ErrBackendUnavailable):
			status, msg = http.StatusServiceUnavailable, "authentication backend unavailable"
		}
		c.JSON(status, gin.H{"error": msg})
		c.Abort()
		return false
	}

	// Guardamos los datos del usuario en el contexto
	c.Set(KeyUserID, user.ID.String())
	c.Set(KeyUserName, user.Name)
	c.Set(KeyUserPhone, user.Phone)
	c.Set(KeyUserPermissions, user.Permissions)
	c.Set(KeyIsAdmin, user.IsAdmin())

	// las llamadas al backend se hacen con el token del usuario
	c.Request = c.Request.WithContext(api.WithToken(c.Request.Context(), token))
	return true
}

// ActorFrom arma el actor de la petición a partir de lo que dejó el middleware.
func ActorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		ID:      c.GetString(KeyUserID),
		Phone:   c.GetString(KeyUserPhone),
		Admin:   c.GetBool(KeyIsAdmin),
		Session: c.GetString(KeyGuestSession),
	}
}

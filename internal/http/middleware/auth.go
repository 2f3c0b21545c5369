package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/gigpay/internal/auth"
	"github.com/nurpe/gigpay/internal/model"
)

const principalKey = "principal"

type ProfileResolver interface {
	GetByID(ctx context.Context, id int64) (*model.Profile, error)
}

// Auth resolves the caller to a Principal from either a bearer token or the
// legacy profile_id header. An unresolved caller gets a bodyless 401; role
// checks are left to the services.
func Auth(profiles ProfileResolver, tokens *auth.Parser) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := resolveProfileID(c, tokens)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		profile, err := profiles.GetByID(c.Request.Context(), profileID)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(principalKey, model.Principal{ID: profile.ID, Type: profile.Type})
		c.Next()
	}
}

func resolveProfileID(c *gin.Context, tokens *auth.Parser) (int64, bool) {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		id, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return 0, false
		}
		return id, true
	}

	raw := c.GetHeader("profile_id")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}

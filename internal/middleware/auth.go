package middleware

import (
	"net/http"

	"shopcart-be/internal/auth"
	"shopcart-be/internal/logger"
	"shopcart-be/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context key for the authenticated identity
const IdentityKey = "identity"

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID uuid.UUID
}

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAuth rejects the request unless it carries a valid bearer token
// whose subject is a user id.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromCtx(c.Request.Context())

		token, ok := auth.ExtractBearerToken(c.Request)
		if !ok {
			response.Abort(c, http.StatusUnauthorized,
				response.Fail(response.StatusFailure, "missing or malformed authorization header", "unauthorized", ""))
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			response.Abort(c, http.StatusUnauthorized,
				response.Fail(response.StatusFailure, "invalid or expired token", "unauthorized", ""))
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			response.Abort(c, http.StatusBadRequest,
				response.Fail(response.StatusError, "invalid user id format", "bad_request", ""))
			return
		}

		c.Set(IdentityKey, Identity{UserID: userID})
		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

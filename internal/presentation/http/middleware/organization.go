package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tilldesk/tilldesk-api/internal/domain/repository"
	infraRepo "github.com/tilldesk/tilldesk-api/internal/infrastructure/repository"
	"github.com/tilldesk/tilldesk-api/internal/presentation/http/dto/response"
)

// OrganizationMiddleware resolves the authenticated user's organization and
// injects it into the request context so every repository query is scoped.
// Must run after AuthMiddleware.
func OrganizationMiddleware(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		userID, ok := userIDVal.(uuid.UUID)
		if !ok || userID == uuid.Nil {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), userID)
		if err != nil || user == nil {
			response.Unauthorized(c, "Unknown user")
			c.Abort()
			return
		}

		// Set organization in Gin context (for handlers)
		c.Set("organization_id", user.OrganizationID)

		// Also set in request context (for services/repositories)
		ctx := infraRepo.WithOrganization(c.Request.Context(), user.OrganizationID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetOrganizationID retrieves the organization ID from gin context
func GetOrganizationID(c *gin.Context) uuid.UUID {
	orgID, exists := c.Get("organization_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := orgID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

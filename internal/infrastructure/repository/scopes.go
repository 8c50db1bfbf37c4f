package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// OrganizationIDKey is the context key for organization ID
	OrganizationIDKey ctxKey = "organization_id"
)

// OrgScope returns a GORM scope that filters by organization.
// This should be applied to all queries for organization-scoped entities.
func OrgScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		orgID, ok := ctx.Value(OrganizationIDKey).(uuid.UUID)
		if !ok {
			// Fail-safe: return no results if organization context missing.
			// This prevents accidental cross-organization data access.
			return db.Where("1 = 0")
		}
		return db.Where("organization_id = ?", orgID)
	}
}

// WithOrganization adds organization ID to context
func WithOrganization(ctx context.Context, orgID uuid.UUID) context.Context {
	return context.WithValue(ctx, OrganizationIDKey, orgID)
}

// GetOrganizationID extracts organization ID from context
func GetOrganizationID(ctx context.Context) (uuid.UUID, bool) {
	orgID, ok := ctx.Value(OrganizationIDKey).(uuid.UUID)
	return orgID, ok
}

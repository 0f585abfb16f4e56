// Package audit provides utilities for audit field enrichment in domain entities.
package audit

import (
	"context"

	appctx "orderflow/internal/core/context"
)

// EnrichCreatedByDirect sets CreatedBy/UpdatedBy from the context user.
// Use in BeforeCreate hooks. No-op when no user is on the context.
func EnrichCreatedByDirect(ctx context.Context, createdBy, updatedBy *string) {
	userID := appctx.GetUserID(ctx)
	if userID != "" && createdBy != nil && updatedBy != nil {
		*createdBy = userID
		*updatedBy = userID
	}
}

// EnrichUpdatedByDirect sets UpdatedBy from the context user.
// Use in BeforeUpdate hooks.
func EnrichUpdatedByDirect(ctx context.Context, updatedBy *string) {
	userID := appctx.GetUserID(ctx)
	if userID != "" && updatedBy != nil {
		*updatedBy = userID
	}
}

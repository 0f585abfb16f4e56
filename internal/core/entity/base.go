package entity

import (
	"context"
	"time"

	"orderflow/internal/core/id"
)

// Validatable is implemented by entities that check their own
// invariants. Validate must not touch the database; cross-entity
// checks belong in services.
type Validatable interface {
	Validate(ctx context.Context) error
}

// BaseEntity holds the identity and optimistic-lock version shared by
// every stored entity.
type BaseEntity struct {
	ID id.ID `db:"id" json:"id"`

	// Version is matched and incremented on every UPDATE.
	Version int `db:"version" json:"version"`
}

// NewBaseEntity returns a BaseEntity with a fresh id at version 1.
func NewBaseEntity() BaseEntity {
	return BaseEntity{ID: id.New(), Version: 1}
}

// Touch bumps the optimistic-lock version.
func (b *BaseEntity) Touch() {
	b.Version++
}

// BaseDocument adds the audit columns documents carry on top of
// BaseEntity.
type BaseDocument struct {
	BaseEntity

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseDocument returns a BaseDocument stamped with the current UTC
// time.
func NewBaseDocument() BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		BaseEntity: NewBaseEntity(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch refreshes UpdatedAt and bumps the version.
func (b *BaseDocument) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.BaseEntity.Touch()
}

// AuditFields exposes the audit columns so HTTP-layer hooks can stamp
// the acting user without knowing the concrete document type.
func (b *BaseDocument) AuditFields() (createdBy, updatedBy *string) {
	return &b.CreatedBy, &b.UpdatedBy
}

// BaseCatalog is the entity base for reference data. Catalogs carry no
// audit columns.
type BaseCatalog struct {
	BaseEntity
}

// NewBaseCatalog returns a BaseCatalog with a fresh id.
func NewBaseCatalog() BaseCatalog {
	return BaseCatalog{BaseEntity: NewBaseEntity()}
}

// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"fmt"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/entity"
	"orderflow/internal/core/id"
	"orderflow/internal/core/tx"
	"orderflow/pkg/logger"
)

// CatalogService implements the generic CRUD flow for one catalog
// entity type. Concrete catalog services embed it and register hooks
// for their extra behavior.
type CatalogService[T entity.Validatable] struct {
	repo       CatalogRepository[T]
	txManager  tx.Manager
	hooks      *HookRegistry[T]
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Validatable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Validatable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// validate runs the entity's self-check and wraps plain errors as
// validation errors.
func (s *CatalogService[T]) validate(ctx context.Context, e T) error {
	err := e.Validate(ctx)
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

// wrapLookupErr rewrites not-found errors to carry this service's
// entity name instead of the table name the repo reported.
func (s *CatalogService[T]) wrapLookupErr(err error, idOrCode any) error {
	switch {
	case err == nil:
		return nil
	case apperror.IsNotFound(err):
		return apperror.NewNotFound(s.entityName, idOrCode)
	case apperror.IsAppError(err):
		return err
	default:
		return apperror.NewInternal(err).
			WithDetail("entity", s.entityName).
			WithDetail("id", idOrCode)
	}
}

func (s *CatalogService[T]) inTx(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("%s %s: %w", op, s.entityName, err)
		}
		return nil
	})
}

// Create validates and inserts a new entity. After-hooks run once the
// transaction has committed, so their failures only log.
func (s *CatalogService[T]) Create(ctx context.Context, e T) error {
	if err := s.validate(ctx, e); err != nil {
		return err
	}
	if err := s.hooks.RunBeforeCreate(ctx, e); err != nil {
		return err
	}

	if err := s.inTx(ctx, "create", func(ctx context.Context) error {
		return s.repo.Create(ctx, e)
	}); err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, e); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

// GetByID retrieves an entity by id.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.GetByID(ctx, entityID)
	return e, s.wrapLookupErr(err, entityID.String())
}

// GetByCode retrieves an entity by code.
func (s *CatalogService[T]) GetByCode(ctx context.Context, code string) (T, error) {
	e, err := s.repo.GetByCode(ctx, code)
	return e, s.wrapLookupErr(err, code)
}

// Update validates and saves an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, e T) error {
	if err := s.validate(ctx, e); err != nil {
		return err
	}
	if err := s.hooks.RunBeforeUpdate(ctx, e); err != nil {
		return err
	}

	if err := s.inTx(ctx, "update", func(ctx context.Context) error {
		return s.repo.Update(ctx, e)
	}); err != nil {
		return err
	}

	if err := s.hooks.RunAfterUpdate(ctx, e); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

// Delete removes the entity permanently. The entity is loaded first so
// before and after hooks can see what is being removed.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	e, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.wrapLookupErr(err, entityID.String())
	}

	if err := s.hooks.RunBeforeDelete(ctx, e); err != nil {
		return err
	}

	if err := s.inTx(ctx, "delete", func(ctx context.Context) error {
		return s.repo.Delete(ctx, entityID)
	}); err != nil {
		return err
	}

	if err := s.hooks.RunAfterDelete(ctx, e); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}

// Exists checks if an entity with the given id exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}

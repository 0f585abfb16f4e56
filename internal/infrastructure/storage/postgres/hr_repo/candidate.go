// Package hr_repo provides PostgreSQL repositories for the HR module.
package hr_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/hr"
	"orderflow/internal/infrastructure/storage/postgres"
	"orderflow/internal/infrastructure/storage/postgres/catalog_repo"
)

// CandidateRepo persists candidates and their onboarding documents.
type CandidateRepo struct {
	*catalog_repo.BaseCatalogRepo[*hr.Candidate]
	txManager *postgres.TxManager
	cols      []string
}

var _ hr.CandidateRepository = (*CandidateRepo)(nil)

// NewCandidateRepo creates a candidate repository.
func NewCandidateRepo(txManager *postgres.TxManager) *CandidateRepo {
	cols := postgres.ExtractDBColumns[hr.Candidate]()
	return &CandidateRepo{
		BaseCatalogRepo: catalog_repo.NewBaseCatalogRepo(
			txManager,
			"candidates",
			cols,
			func() *hr.Candidate { return &hr.Candidate{} },
		),
		txManager: txManager,
		cols:      cols,
	}
}

// FindByEmail retrieves a candidate by email.
func (r *CandidateRepo) FindByEmail(ctx context.Context, email string) (*hr.Candidate, error) {
	q := r.Builder().
		Select(r.cols...).
		From("candidates").
		Where(squirrel.Eq{"email": email}).
		Limit(1)
	return r.FindOne(ctx, q)
}

// AddDocument stores one uploaded document record.
func (r *CandidateRepo) AddDocument(ctx context.Context, doc *hr.CandidateDocument) error {
	data := postgres.StructToMap(doc)
	sql, args, err := r.Builder().
		Insert("candidate_documents").
		SetMap(data).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert candidate_documents: %w", err)
	}
	return nil
}

// ListDocuments returns the candidate's documents, oldest first.
func (r *CandidateRepo) ListDocuments(ctx context.Context, candidateID id.ID) ([]hr.CandidateDocument, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[hr.CandidateDocument]()...).
		From("candidate_documents").
		Where(squirrel.Eq{"candidate_id": candidateID}).
		OrderBy("uploaded_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var docs []hr.CandidateDocument
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("select candidate_documents: %w", err)
	}
	return docs, nil
}

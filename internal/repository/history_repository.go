package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loanbridge/backend/internal/model"
)

type HistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, entry *model.StatusHistoryEntry) error {
	query := `
		INSERT INTO status_history (id, application_id, lender_id, entity, from_status, to_status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at`

	entry.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		entry.ID, entry.ApplicationID, entry.LenderID, entry.Entity,
		entry.FromStatus, entry.ToStatus, entry.Reason,
	).Scan(&entry.CreatedAt)
}

func (r *HistoryRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistoryEntry, error) {
	var entries []model.StatusHistoryEntry
	query := `SELECT * FROM status_history WHERE application_id = $1 ORDER BY created_at ASC`
	err := r.db.SelectContext(ctx, &entries, query, applicationID)
	return entries, err
}

func (r *HistoryRepository) RecordAction(ctx context.Context, action *model.ApproverAction) error {
	query := `
		INSERT INTO approver_actions (id, application_id, lender_id, approver, action, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`

	action.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		action.ID, action.ApplicationID, action.LenderID, action.Approver, action.Action, action.Notes,
	).Scan(&action.CreatedAt)
}

func (r *HistoryRepository) ListActions(ctx context.Context, applicationID uuid.UUID) ([]model.ApproverAction, error) {
	var actions []model.ApproverAction
	query := `SELECT * FROM approver_actions WHERE application_id = $1 ORDER BY created_at ASC`
	err := r.db.SelectContext(ctx, &actions, query, applicationID)
	return actions, err
}

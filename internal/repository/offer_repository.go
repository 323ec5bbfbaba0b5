package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loanbridge/backend/internal/model"
)

var ErrOfferNotFound = errors.New("offer not found")

type OfferRepository struct {
	db *sqlx.DB
}

func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

const offerInsertQuery = `
	INSERT INTO offers (id, application_id, lender_id, lender_name, lender_logo, loan_amount, interest_rate, term_months, monthly_payment, total_interest, total_payment, processing_fee_percent, processing_fee_amount, approval_probability, estimated_approval, is_recommended, recommendation_reason, status, rejected_reason, expires_at, created_at, updated_at)
	VALUES (:id, :application_id, :lender_id, :lender_name, :lender_logo, :loan_amount, :interest_rate, :term_months, :monthly_payment, :total_interest, :total_payment, :processing_fee_percent, :processing_fee_amount, :approval_probability, :estimated_approval, :is_recommended, :recommendation_reason, :status, :rejected_reason, :expires_at, NOW(), NOW())`

// CreateBatch inserts all offers in one transaction so a generation pass is
// all-or-nothing.
func (r *OfferRepository) CreateBatch(ctx context.Context, offers []model.Offer) error {
	if len(offers) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i := range offers {
		if offers[i].ID == uuid.Nil {
			offers[i].ID = uuid.New()
		}
		if _, err := tx.NamedExecContext(ctx, offerInsertQuery, offers[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	var offer model.Offer
	query := `SELECT * FROM offers WHERE id = $1`
	err := r.db.GetContext(ctx, &offer, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferNotFound
	}
	return &offer, err
}

func (r *OfferRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.Offer, error) {
	var offers []model.Offer
	query := `SELECT * FROM offers WHERE application_id = $1 ORDER BY interest_rate ASC, approval_probability DESC`
	err := r.db.SelectContext(ctx, &offers, query, applicationID)
	return offers, err
}

func (r *OfferRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OfferStatus, reason *string) error {
	query := `
		UPDATE offers
		SET status = $2, rejected_reason = $3, updated_at = NOW()
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, reason)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// StaleOffer pairs an expired offer row with the status it was flipped from,
// so audit entries can record the real transition.
type StaleOffer struct {
	model.Offer
	PriorStatus model.OfferStatus `db:"prior_status"`
}

// ExpireStale flips pending and pre-approved offers whose deadline has passed
// and returns the affected rows so the caller can write audit entries.
func (r *OfferRepository) ExpireStale(ctx context.Context, now time.Time) ([]StaleOffer, error) {
	var expired []StaleOffer
	query := `
		UPDATE offers o
		SET status = 'expired', updated_at = NOW()
		FROM (
			SELECT id, status AS prior_status
			FROM offers
			WHERE status IN ('pending', 'approved') AND expires_at < $1
			FOR UPDATE
		) stale
		WHERE o.id = stale.id
		RETURNING o.*, stale.prior_status`
	err := r.db.SelectContext(ctx, &expired, query, now)
	return expired, err
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loanbridge/backend/internal/model"
)

var ErrBankApplicationNotFound = errors.New("bank application not found")

type BankApplicationRepository struct {
	db *sqlx.DB
}

func NewBankApplicationRepository(db *sqlx.DB) *BankApplicationRepository {
	return &BankApplicationRepository{db: db}
}

// Acceptance carries everything the accept-offer transition changed in
// memory, persisted as one transaction.
type Acceptance struct {
	Application     *model.LoanApplication
	AcceptedOffer   *model.Offer
	AcceptedBankApp *model.BankApplication
	RejectedOffers  []model.Offer
	RejectedApps    []model.BankApplication
	History         []model.StatusHistoryEntry
}

const bankAppInsertQuery = `
	INSERT INTO bank_applications (id, application_id, lender_id, lender_name, applied_amount, applied_term, status, status_updated_at, offer_id, submitted_at, created_at, updated_at)
	VALUES (:id, :application_id, :lender_id, :lender_name, :applied_amount, :applied_term, :status, :status_updated_at, :offer_id, :submitted_at, NOW(), NOW())`

func (r *BankApplicationRepository) CreateBatch(ctx context.Context, apps []model.BankApplication) error {
	if len(apps) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i := range apps {
		if apps[i].ID == uuid.Nil {
			apps[i].ID = uuid.New()
		}
		if _, err := tx.NamedExecContext(ctx, bankAppInsertQuery, apps[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *BankApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BankApplication, error) {
	var app model.BankApplication
	query := `SELECT * FROM bank_applications WHERE id = $1`
	err := r.db.GetContext(ctx, &app, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBankApplicationNotFound
	}
	return &app, err
}

func (r *BankApplicationRepository) GetByLender(ctx context.Context, applicationID uuid.UUID, lenderID string) (*model.BankApplication, error) {
	var app model.BankApplication
	query := `SELECT * FROM bank_applications WHERE application_id = $1 AND lender_id = $2`
	err := r.db.GetContext(ctx, &app, query, applicationID, lenderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBankApplicationNotFound
	}
	return &app, err
}

func (r *BankApplicationRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.BankApplication, error) {
	var apps []model.BankApplication
	query := `SELECT * FROM bank_applications WHERE application_id = $1 ORDER BY submitted_at ASC`
	err := r.db.SelectContext(ctx, &apps, query, applicationID)
	return apps, err
}

const bankAppStatusUpdateQuery = `
	UPDATE bank_applications
	SET status = $2, status_updated_at = $3, reviewed_at = $4, decided_at = $5, notes = $6, rejection_reason = $7, updated_at = NOW()
	WHERE id = $1`

func (r *BankApplicationRepository) UpdateStatus(ctx context.Context, app *model.BankApplication) error {
	result, err := r.db.ExecContext(ctx, bankAppStatusUpdateQuery,
		app.ID, app.Status, app.StatusUpdatedAt, app.ReviewedAt, app.DecidedAt, app.Notes, app.RejectionReason,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBankApplicationNotFound
	}
	return nil
}

// CommitAcceptance persists the full accept-offer transition atomically:
// the accepted offer and bank application, every auto-rejected sibling, the
// snapshot on the parent application, and the audit trail.
func (r *BankApplicationRepository) CommitAcceptance(ctx context.Context, acceptance *Acceptance) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	offerUpdate := `
		UPDATE offers
		SET status = $2, rejected_reason = $3, accepted_at = $4, updated_at = NOW()
		WHERE id = $1`

	accepted := acceptance.AcceptedOffer
	if _, err := tx.ExecContext(ctx, offerUpdate, accepted.ID, accepted.Status, accepted.RejectedReason, accepted.AcceptedAt); err != nil {
		return err
	}
	for _, o := range acceptance.RejectedOffers {
		if _, err := tx.ExecContext(ctx, offerUpdate, o.ID, o.Status, o.RejectedReason, o.AcceptedAt); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, bankAppStatusUpdateQuery,
		acceptance.AcceptedBankApp.ID, acceptance.AcceptedBankApp.Status, acceptance.AcceptedBankApp.StatusUpdatedAt,
		acceptance.AcceptedBankApp.ReviewedAt, acceptance.AcceptedBankApp.DecidedAt,
		acceptance.AcceptedBankApp.Notes, acceptance.AcceptedBankApp.RejectionReason,
	); err != nil {
		return err
	}
	for _, a := range acceptance.RejectedApps {
		if _, err := tx.ExecContext(ctx, bankAppStatusUpdateQuery,
			a.ID, a.Status, a.StatusUpdatedAt, a.ReviewedAt, a.DecidedAt, a.Notes, a.RejectionReason,
		); err != nil {
			return err
		}
	}

	app := acceptance.Application
	snapshotUpdate := `
		UPDATE loan_applications
		SET accepted_bank_id = $2, accepted_bank_name = $3, accepted_bank_logo = $4,
			accepted_offer_rate = $5, accepted_offer_term = $6, accepted_offer_amount = $7,
			accepted_monthly_amort = $8, accepted_total_interest = $9, accepted_processing_fee = $10,
			accepted_at = $11, updated_at = NOW()
		WHERE id = $1`
	if _, err := tx.ExecContext(ctx, snapshotUpdate,
		app.ID, app.AcceptedBankID, app.AcceptedBankName, app.AcceptedBankLogo,
		app.AcceptedOfferRate, app.AcceptedOfferTerm, app.AcceptedOfferAmount,
		app.AcceptedMonthlyAmort, app.AcceptedTotalInterest, app.AcceptedProcessingFee,
		app.AcceptedAt,
	); err != nil {
		return err
	}

	historyInsert := `
		INSERT INTO status_history (id, application_id, lender_id, entity, from_status, to_status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`
	for i := range acceptance.History {
		entry := &acceptance.History[i]
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		if _, err := tx.ExecContext(ctx, historyInsert,
			entry.ID, entry.ApplicationID, entry.LenderID, entry.Entity, entry.FromStatus, entry.ToStatus, entry.Reason,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/loanbridge/backend/internal/model"
)

var ErrLenderNotFound = errors.New("lender not found")

type LenderRepository struct {
	db *sqlx.DB
}

func NewLenderRepository(db *sqlx.DB) *LenderRepository {
	return &LenderRepository{db: db}
}

// Seed upserts the lender catalog. Safe to run on every boot.
func (r *LenderRepository) Seed(ctx context.Context, lenders []model.LenderProfile) error {
	query := `
		INSERT INTO lenders (id, name, logo, tier, min_credit_score, max_dti, min_monthly_income, min_amount, max_amount, min_term, max_term, min_rate, max_rate, avg_approval_time, approval_rate, processing_fee, is_active, created_at, updated_at)
		VALUES (:id, :name, :logo, :tier, :min_credit_score, :max_dti, :min_monthly_income, :min_amount, :max_amount, :min_term, :max_term, :min_rate, :max_rate, :avg_approval_time, :approval_rate, :processing_fee, :is_active, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, logo = EXCLUDED.logo, tier = EXCLUDED.tier,
			min_credit_score = EXCLUDED.min_credit_score, max_dti = EXCLUDED.max_dti,
			min_monthly_income = EXCLUDED.min_monthly_income, min_amount = EXCLUDED.min_amount,
			max_amount = EXCLUDED.max_amount, min_term = EXCLUDED.min_term, max_term = EXCLUDED.max_term,
			min_rate = EXCLUDED.min_rate, max_rate = EXCLUDED.max_rate,
			avg_approval_time = EXCLUDED.avg_approval_time, approval_rate = EXCLUDED.approval_rate,
			processing_fee = EXCLUDED.processing_fee, is_active = EXCLUDED.is_active, updated_at = NOW()`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i := range lenders {
		if _, err := tx.NamedExecContext(ctx, query, lenders[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *LenderRepository) List(ctx context.Context, activeOnly bool) ([]model.LenderProfile, error) {
	var lenders []model.LenderProfile
	query := `SELECT * FROM lenders WHERE ($1 = false OR is_active = true) ORDER BY name ASC`
	err := r.db.SelectContext(ctx, &lenders, query, activeOnly)
	return lenders, err
}

func (r *LenderRepository) GetByID(ctx context.Context, id string) (*model.LenderProfile, error) {
	var lender model.LenderProfile
	query := `SELECT * FROM lenders WHERE id = $1`
	err := r.db.GetContext(ctx, &lender, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLenderNotFound
	}
	return &lender, err
}

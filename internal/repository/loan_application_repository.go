package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loanbridge/backend/internal/model"
)

var ErrApplicationNotFound = errors.New("loan application not found")

type LoanApplicationRepository struct {
	db *sqlx.DB
}

func NewLoanApplicationRepository(db *sqlx.DB) *LoanApplicationRepository {
	return &LoanApplicationRepository{db: db}
}

func (r *LoanApplicationRepository) Create(ctx context.Context, app *model.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (id, applicant_name, applicant_email, credit_score, monthly_income, monthly_debt, requested_amount, requested_term, employment_status, has_existing_loans, currency, identity_verified, income_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING created_at, updated_at`

	app.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		app.ID, app.ApplicantName, app.ApplicantEmail, app.CreditScore, app.MonthlyIncome, app.MonthlyDebt,
		app.RequestedAmount, app.RequestedTerm, app.EmploymentStatus, app.HasExistingLoans,
		app.Currency, app.IdentityVerified, app.IncomeVerified,
	).Scan(&app.CreatedAt, &app.UpdatedAt)
}

func (r *LoanApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.LoanApplication, error) {
	var app model.LoanApplication
	query := `SELECT * FROM loan_applications WHERE id = $1`
	err := r.db.GetContext(ctx, &app, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	return &app, err
}

func (r *LoanApplicationRepository) List(ctx context.Context, filters ApplicationFilters) ([]model.LoanApplication, error) {
	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var apps []model.LoanApplication
	query := `
		SELECT * FROM loan_applications
		WHERE ($1 = '' OR applicant_email = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &apps, query, filters.Email, limit, filters.Offset)
	return apps, err
}

func (r *LoanApplicationRepository) Update(ctx context.Context, app *model.LoanApplication) error {
	query := `
		UPDATE loan_applications
		SET applicant_name = $2, applicant_email = $3, credit_score = $4, monthly_income = $5,
			monthly_debt = $6, requested_amount = $7, requested_term = $8, employment_status = $9,
			has_existing_loans = $10, identity_verified = $11, income_verified = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		app.ID, app.ApplicantName, app.ApplicantEmail, app.CreditScore, app.MonthlyIncome,
		app.MonthlyDebt, app.RequestedAmount, app.RequestedTerm, app.EmploymentStatus,
		app.HasExistingLoans, app.IdentityVerified, app.IncomeVerified,
	).Scan(&app.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrApplicationNotFound
	}
	return err
}

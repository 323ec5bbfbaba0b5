package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loanbridge/backend/internal/model"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

type AssessmentRepository struct {
	db *sqlx.DB
}

func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func (r *AssessmentRepository) Create(ctx context.Context, assessment *model.AIAssessment) error {
	query := `
		INSERT INTO ai_assessments (id, application_id, risk_score, risk_band, findings, recommendation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`

	assessment.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		assessment.ID, assessment.ApplicationID, assessment.RiskScore,
		assessment.RiskBand, assessment.Findings, assessment.Recommendation,
	).Scan(&assessment.CreatedAt)
}

func (r *AssessmentRepository) GetByApplication(ctx context.Context, applicationID uuid.UUID) (*model.AIAssessment, error) {
	var assessment model.AIAssessment
	query := `SELECT * FROM ai_assessments WHERE application_id = $1 ORDER BY created_at DESC LIMIT 1`
	err := r.db.GetContext(ctx, &assessment, query, applicationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAssessmentNotFound
	}
	return &assessment, err
}

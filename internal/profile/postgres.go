package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"visa-pathway-workers/internal/models"
)

const (
	loadProfileQuery = `SELECT user_id, education_level, years_of_experience, field_of_work, english_proficiency, country_of_citizenship, investment_amount, current_visa, updated_at FROM user_profiles WHERE user_id = $1`

	saveProfileQuery = `INSERT INTO user_profiles (user_id, education_level, years_of_experience, field_of_work, english_proficiency, country_of_citizenship, investment_amount, current_visa, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (user_id) DO UPDATE SET
	education_level = EXCLUDED.education_level,
	years_of_experience = EXCLUDED.years_of_experience,
	field_of_work = EXCLUDED.field_of_work,
	english_proficiency = EXCLUDED.english_proficiency,
	country_of_citizenship = EXCLUDED.country_of_citizenship,
	investment_amount = EXCLUDED.investment_amount,
	current_visa = EXCLUDED.current_visa,
	updated_at = EXCLUDED.updated_at`

	// SchemaDDL creates the profile table on a fresh database.
	SchemaDDL = `CREATE TABLE IF NOT EXISTS user_profiles (
	user_id TEXT PRIMARY KEY,
	education_level TEXT NOT NULL DEFAULT '',
	years_of_experience INTEGER NOT NULL DEFAULT 0,
	field_of_work TEXT NOT NULL DEFAULT '',
	english_proficiency INTEGER NOT NULL DEFAULT 0,
	country_of_citizenship TEXT NOT NULL DEFAULT '',
	investment_amount NUMERIC NOT NULL DEFAULT 0,
	current_visa TEXT,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
)

type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, SchemaDDL); err != nil {
		return fmt.Errorf("create user_profiles: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, userID string) (*models.UserProfile, error) {
	var (
		p         models.UserProfile
		education string
		current   sql.NullString
		updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx, loadProfileQuery, userID).Scan(
		&p.ID, &education, &p.YearsOfExperience, &p.FieldOfWork, &p.EnglishProficiency,
		&p.CountryOfCitizenship, &p.InvestmentAmount, &current, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}

	p.EducationLevel = models.EducationLevel(education)
	if current.Valid && current.String != "" {
		p.CurrentVisa = models.StringPtr(current.String)
	}
	p.UpdatedAt = &updatedAt
	return &p, nil
}

// Save upserts the profile under userID and stamps UpdatedAt on p.
func (s *PostgresStore) Save(ctx context.Context, userID string, p *models.UserProfile) error {
	now := s.now()
	var current sql.NullString
	if id := p.CurrentVisaID(); id != "" {
		current = sql.NullString{String: id, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, saveProfileQuery,
		userID, string(p.EducationLevel), p.YearsOfExperience, p.FieldOfWork, p.EnglishProficiency,
		p.CountryOfCitizenship, p.InvestmentAmount, current, now,
	)
	if err != nil {
		return fmt.Errorf("save profile %s: %w", userID, err)
	}

	p.ID = userID
	p.UpdatedAt = &now
	return nil
}

package profile

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visa-pathway-workers/internal/models"
)

var profileColumns = []string{
	"user_id", "education_level", "years_of_experience", "field_of_work", "english_proficiency",
	"country_of_citizenship", "investment_amount", "current_visa", "updated_at",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func TestPostgresStore_Load(t *testing.T) {
	store, mock := newMockStore(t)
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(loadProfileQuery)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(profileColumns).
			AddRow("user-1", "masters", 4, "software", 4, "IN", 25000.0, "h1b", updated))

	p, err := store.Load(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, models.EducationMasters, p.EducationLevel)
	assert.Equal(t, 4, p.YearsOfExperience)
	assert.Equal(t, "IN", p.CountryOfCitizenship)
	assert.Equal(t, 25000.0, p.InvestmentAmount)
	assert.Equal(t, "h1b", p.CurrentVisaID())
	assert.Equal(t, updated, *p.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadNullVisa(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(loadProfileQuery)).
		WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows(profileColumns).
			AddRow("user-2", "bachelors", 0, "", 2, "DE", 0.0, nil, time.Now()))

	p, err := store.Load(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Nil(t, p.CurrentVisa)
}

func TestPostgresStore_LoadErrors(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(loadProfileQuery)).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(loadProfileQuery)).WithArgs("user-3").WillReturnError(boom)
	_, err = store.Load(context.Background(), "user-3")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrProfileNotFound)
}

func TestPostgresStore_Save(t *testing.T) {
	store, mock := newMockStore(t)
	fixed := time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	p := &models.UserProfile{
		EducationLevel:       models.EducationBachelors,
		YearsOfExperience:    2,
		FieldOfWork:          "nursing",
		EnglishProficiency:   3,
		CountryOfCitizenship: "PH",
	}
	mock.ExpectExec(regexp.QuoteMeta(saveProfileQuery)).
		WithArgs("user-9", "bachelors", 2, "nursing", 3, "PH", 0.0, sql.NullString{}, fixed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), "user-9", p))
	assert.Equal(t, "user-9", p.ID)
	assert.Equal(t, fixed, *p.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(saveProfileQuery)).WillReturnError(errors.New("disk full"))
	err := store.Save(context.Background(), "user-9", &models.UserProfile{CurrentVisa: models.StringPtr("f1")})
	assert.ErrorContains(t, err, "save profile user-9")
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(SchemaDDL)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

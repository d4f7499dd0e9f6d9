package scorevisaeligibility

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visa-pathway-workers/internal/common/config"
	"visa-pathway-workers/internal/common/errors"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/eligibility"
	"visa-pathway-workers/internal/engine"
	"visa-pathway-workers/internal/models"
	"visa-pathway-workers/internal/profile"
	"visa-pathway-workers/pkg/registry"
)

type stubStore map[string]models.UserProfile

func (s stubStore) Load(_ context.Context, userID string) (*models.UserProfile, error) {
	p, ok := s[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return &p, nil
}

func (s stubStore) Save(_ context.Context, userID string, p *models.UserProfile) error {
	s[userID] = *p
	return nil
}

func engineerProfile() models.UserProfile {
	return models.UserProfile{
		ID:                   "u1",
		EducationLevel:       models.EducationMasters,
		YearsOfExperience:    5,
		FieldOfWork:          "technology",
		EnglishProficiency:   4,
		CountryOfCitizenship: "IN",
	}
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	eng, err := engine.New(config.EngineConfig{}, nil)
	require.NoError(t, err)

	h, err := NewHandler(HandlerOptions{
		Engine: eng,
		Store:  stubStore{"u1": engineerProfile()},
		Logger: logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func TestNewHandler(t *testing.T) {
	_, err := NewHandler(HandlerOptions{})
	assert.ErrorContains(t, err, "requires an engine")

	_, err = NewHandler(HandlerOptions{Config: &Config{Timeout: 0, MaxJobsActive: 1}})
	assert.ErrorContains(t, err, "timeout must be positive")

	h := newTestHandler(t)
	assert.Equal(t, TaskType, h.GetTaskType())
	assert.Equal(t, DefaultConfig(), h.GetConfig())
}

func TestFromWorkerConfig(t *testing.T) {
	cfg := FromWorkerConfig(config.WorkerConfig{Enabled: true, Timeout: 2500})
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 10, cfg.MaxJobsActive)
	assert.Equal(t, "2.5s", cfg.Timeout.String())
}

func TestExecute_SelectedVisas(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{UserID: "u1", VisaIDs: []string{"h1b", "opt", "nope"}})
	require.NoError(t, err)

	require.Len(t, out.Scores, 2)
	assert.Equal(t, "h1b", out.Scores[0].VisaID)
	assert.Equal(t, 100, out.Scores[0].MatchPercentage)
	assert.Equal(t, eligibility.StatusRecommended, out.Scores[0].Status)
	assert.Equal(t, "opt", out.Scores[1].VisaID)
	assert.Equal(t, 50, out.Scores[1].MatchPercentage)
	assert.Equal(t, eligibility.StatusAvailable, out.Scores[1].Status)

	assert.Equal(t, eligibility.Summary{Recommended: 1, Available: 1}, out.Summary)
	assert.Equal(t, []string{"nope"}, out.UnknownVisaIDs)
	assert.Equal(t, "u1", out.UserID)
}

func TestExecute_WholeCatalogInline(t *testing.T) {
	h := newTestHandler(t)
	p := engineerProfile()
	p.ID = ""

	out, err := h.Execute(context.Background(), &Input{UserProfile: &p})
	require.NoError(t, err)
	assert.Len(t, out.Scores, h.engine.KB.Len())

	sum := out.Recommended + out.Available + out.Locked
	assert.Equal(t, h.engine.KB.Len(), sum)
	assert.Empty(t, out.UserID)
}

func TestExecute_Errors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name  string
		input *Input
		code  errors.ErrorCode
	}{
		{"unknown user", &Input{UserID: "ghost"}, errors.ErrCodeProfileNotFound},
		{"no profile source", &Input{}, errors.ErrCodeInvalidInput},
		{"only unknown visas", &Input{UserID: "u1", VisaIDs: []string{"zz"}}, errors.ErrCodeVisaNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), tt.input)
			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, stdErr.Code)
		})
	}
}

func TestOutput_FlattensSummary(t *testing.T) {
	raw, err := json.Marshal(Output{Summary: eligibility.Summary{Recommended: 2, Locked: 1}})
	require.NoError(t, err)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &vars))
	assert.EqualValues(t, 2, vars["recommendedCount"])
	assert.EqualValues(t, 0, vars["availableCount"])
	assert.EqualValues(t, 1, vars["lockedCount"])
}

func TestInputSchema(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)
	v, err := reg.Validator()
	require.NoError(t, err)

	res, err := v.Validate(TaskType, map[string]interface{}{"visaIds": []interface{}{"h1b"}})
	require.NoError(t, err)
	assert.False(t, res.Valid)

	res, err = v.Validate(TaskType, map[string]interface{}{"userId": "u1"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

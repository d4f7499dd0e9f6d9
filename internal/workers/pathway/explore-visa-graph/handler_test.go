package explorevisagraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visa-pathway-workers/internal/common/config"
	"visa-pathway-workers/internal/common/errors"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/eligibility"
	"visa-pathway-workers/internal/engine"
	"visa-pathway-workers/internal/models"
	"visa-pathway-workers/internal/pathway"
	"visa-pathway-workers/internal/profile"
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

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	eng, err := engine.New(config.EngineConfig{}, nil)
	require.NoError(t, err)

	h, err := NewHandler(HandlerOptions{
		Engine: eng,
		Store: stubStore{"worker": {
			ID:                 "worker",
			EducationLevel:     models.EducationBachelors,
			EnglishProficiency: 3,
			CurrentVisa:        models.StringPtr("h1b"),
		}},
		Logger: logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func assertEdgesInside(t *testing.T, out *Output) {
	t.Helper()
	for _, e := range out.Edges {
		_, fromOK := out.Tiers.LevelOf(e.From)
		_, toOK := out.Tiers.LevelOf(e.To)
		assert.True(t, fromOK && toOK, "edge %s->%s leaves the explored graph", e.From, e.To)
	}
}

func TestExecute_FromStartVisa(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{StartVisa: models.StringPtr("f1")})
	require.NoError(t, err)

	assert.Equal(t, "f1", out.StartVisa)
	assert.Equal(t, pathway.Tiers{
		0: {"f1"},
		1: {"opt", "h1b"},
		2: {"stemopt", "o1", "eb2gc", "eb3gc", "eb1gc"},
		3: {"citizenship"},
	}, out.Tiers)
	assert.Len(t, out.Reachable, 9)
	assert.Len(t, out.Positions, 9)
	assert.Contains(t, out.Edges, pathway.Edge{From: "f1", To: "opt"})
	assertEdgesInside(t, out)
	assert.Nil(t, out.Statuses)
}

func TestExecute_MaxDepth(t *testing.T) {
	h := newTestHandler(t)
	depth := 1

	out, err := h.Execute(context.Background(), &Input{StartVisa: models.StringPtr("f1"), MaxDepth: &depth})
	require.NoError(t, err)
	assert.Equal(t, pathway.Tiers{0: {"f1"}, 1: {"opt", "h1b"}}, out.Tiers)
	assert.ElementsMatch(t, []pathway.Edge{{From: "f1", To: "opt"}, {From: "f1", To: "h1b"}, {From: "opt", To: "h1b"}}, out.Edges)
}

func TestExecute_ProfileCurrentVisa(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{UserID: "worker"})
	require.NoError(t, err)

	assert.Equal(t, "h1b", out.StartVisa)
	assert.Equal(t, []string{"eb2gc", "eb3gc", "eb1gc", "o1"}, out.Tiers[1])
	require.Len(t, out.Statuses, len(out.Reachable))
	assert.Equal(t, eligibility.StatusRecommended, out.Statuses["h1b"])
	assertEdgesInside(t, out)
}

func TestExecute_StartVisaOverridesProfile(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{UserID: "worker", StartVisa: models.StringPtr("f1")})
	require.NoError(t, err)
	assert.Equal(t, "f1", out.StartVisa)
	assert.NotEmpty(t, out.Statuses)
}

func TestExecute_NoVisaSeedsEverything(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{StartVisa: models.StringPtr("b2")})
	require.NoError(t, err)

	assert.Equal(t, pathway.StartNodeID, out.StartVisa)
	assert.Equal(t, h.engine.Adjacency(nil).Len(), len(out.Reachable))
	assert.NotContains(t, out.Reachable, "b2")
	assert.Contains(t, out.Positions, pathway.StartNodeID)
}

func TestExecute_CategoryFilter(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		StartVisa:         models.StringPtr("f1"),
		AllowedCategories: []string{"student"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"f1", "opt", "stemopt"}, out.Reachable)
}

func TestExecute_UnknownUser(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{UserID: "ghost"})
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeProfileNotFound, stdErr.Code)
}

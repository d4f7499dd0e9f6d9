package sendpathsummary

import (
	"context"
	"strings"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visa-pathway-workers/internal/common/aws"
	"visa-pathway-workers/internal/common/config"
	"visa-pathway-workers/internal/common/errors"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/eligibility"
	"visa-pathway-workers/internal/engine"
	"visa-pathway-workers/internal/models"
	"visa-pathway-workers/internal/pathway"
)

type fakeSES struct {
	sent []*ses.SendEmailInput
	err  error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, in)
	return &ses.SendEmailOutput{MessageId: awssdk.String("ses-1")}, nil
}

func newTestHandler(t *testing.T, api *fakeSES) *Handler {
	t.Helper()
	eng, err := engine.New(config.EngineConfig{}, nil)
	require.NoError(t, err)

	h, err := NewHandler(HandlerOptions{
		Engine: eng,
		Mailer: aws.NewSESClientWithAPI(api, "paths@example.com"),
		Logger: logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func h1bProfile() *models.UserProfile {
	return &models.UserProfile{
		EducationLevel:       models.EducationMasters,
		YearsOfExperience:    2,
		EnglishProficiency:   3,
		CountryOfCitizenship: "IN",
		CurrentVisa:          models.StringPtr("h1b"),
	}
}

func TestNewHandler_Requirements(t *testing.T) {
	_, err := NewHandler(HandlerOptions{})
	assert.ErrorContains(t, err, "requires an engine")

	eng, err := engine.New(config.EngineConfig{}, nil)
	require.NoError(t, err)
	_, err = NewHandler(HandlerOptions{Engine: eng})
	assert.ErrorContains(t, err, "requires a mailer")
}

func TestExecute_ComputesPath(t *testing.T) {
	api := &fakeSES{}
	h := newTestHandler(t, api)

	out, err := h.Execute(context.Background(), &Input{Email: "user@example.com", UserProfile: h1bProfile()})
	require.NoError(t, err)
	assert.Equal(t, &Output{Sent: true, MessageID: "ses-1", HasPath: true}, out)

	require.Len(t, api.sent, 1)
	msg := api.sent[0]
	assert.Equal(t, []string{"user@example.com"}, msg.Destination.ToAddresses)
	assert.Equal(t, subject, awssdk.ToString(msg.Message.Subject.Data))

	text := awssdk.ToString(msg.Message.Body.Text.Data)
	assert.Contains(t, text, "1. EB-3")
	assert.Contains(t, text, "2. N-400")
	assert.Contains(t, text, "about 96 months")
	assert.Contains(t, awssdk.ToString(msg.Message.Body.Html.Data), "<strong>EB-3</strong>")
}

func TestExecute_ReusesGivenPath(t *testing.T) {
	api := &fakeSES{}
	h := newTestHandler(t, api)

	path := &pathway.RecommendedPath{
		Steps: []pathway.PathStep{{
			VisaID: "o1", Code: "O-1", Score: 100, Status: eligibility.StatusRecommended,
			Reason: "Awards & press", EstimatedTimeMonths: 24,
		}},
		TotalEstimatedMonths: 24,
		Confidence:           pathway.ConfidenceHigh,
	}
	_, err := h.Execute(context.Background(), &Input{Email: "user@example.com", RecommendedPath: path})
	require.NoError(t, err)

	require.Len(t, api.sent, 1)
	assert.Contains(t, awssdk.ToString(api.sent[0].Message.Body.Text.Data), "1. O-1 (100% match, ~24 months)")
	assert.Contains(t, awssdk.ToString(api.sent[0].Message.Body.Html.Data), "Awards &amp; press")
}

func TestExecute_NoPath(t *testing.T) {
	api := &fakeSES{}
	h := newTestHandler(t, api)

	out, err := h.Execute(context.Background(), &Input{Email: "user@example.com", UserProfile: &models.UserProfile{}})
	require.NoError(t, err)
	assert.False(t, out.HasPath)
	assert.True(t, out.Sent)
	assert.True(t, strings.HasPrefix(awssdk.ToString(api.sent[0].Message.Body.Text.Data), "We could not find a viable path"))
}

func TestExecute_Errors(t *testing.T) {
	h := newTestHandler(t, &fakeSES{err: assert.AnError})

	_, err := h.Execute(context.Background(), &Input{Email: "user@example.com", UserProfile: h1bProfile()})
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)

	_, err = h.Execute(context.Background(), &Input{UserProfile: h1bProfile()})
	stdErr, ok = errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)

	_, err = h.Execute(context.Background(), &Input{Email: "user@example.com", UserID: "u1"})
	stdErr, ok = errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeProfileLoadFailed, stdErr.Code, "no store configured")
}

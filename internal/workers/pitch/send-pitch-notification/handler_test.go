package sendpitchnotification

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"pitch-workers/internal/common/aws"
	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/models"
	"pitch-workers/internal/pitch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	_ EmailSender = (*aws.SESClient)(nil)
	_ SMSSender   = (*aws.SNSClient)(nil)
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, to []string, subject, text, html string) (string, error) {
	args := m.Called(ctx, to, subject, text, html)
	return args.String(0), args.Error(1)
}

type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) SendSMS(ctx context.Context, phone, message string) (string, error) {
	args := m.Called(ctx, phone, message)
	return args.String(0), args.Error(1)
}

func createTestFormData() map[string]interface{} {
	return map[string]interface{}{
		"fullName":         "Ada Founder",
		"email":            "ada@example.com",
		"ideaSummary":      "Scheduling for independent gyms",
		"problemSolved":    "Owners juggle spreadsheets and chat apps",
		"targetSegment":    "independent gyms",
		"switchReason":     "Half the price of the incumbents",
		"revenueModel":     "subscription",
		"pricePoint":       "$49/month",
		"yearOneGoal":      "$100K ARR",
		"commitmentHours":  "10-20",
		"priorLaunch":      "no",
		"tractionType":     "waitlist",
		"tractionValue":    "150",
		"first100Plan":     "Partner with three regional gym associations",
		"primaryChannel":   "partnerships",
		"mustHaveFeatures": "Class booking, member billing, reminders",
		"platform":         "web",
		"validationReady":  "yes",
		"adBudgetRange":    "500",
		"dealPreference":   "open",
	}
}

func createTestConfig() *Config {
	return &Config{
		Timeout:      time.Second,
		EmailEnabled: true,
		SMSEnabled:   true,
		AdminEmail:   "admin@example.com",
		AdminPhone:   "+15550001111",
	}
}

// inputWithBand carries a score and an offer forced into band.
func inputWithBand(t *testing.T, band pitch.Band) *Input {
	t.Helper()
	q, err := pitch.FromMap(createTestFormData())
	require.NoError(t, err)
	score := pitch.Evaluate(q)
	offer := pitch.BuildOffer(q, score, nil)
	offer.Band = band
	return &Input{FormData: createTestFormData(), Score: &score, Offer: &offer, SubmissionID: "sub-1"}
}

func TestHandler_Execute_EmailsOnly(t *testing.T) {
	email := new(MockEmailSender)
	sms := new(MockSMSSender)
	email.On("SendEmail", mock.Anything, []string{"admin@example.com"},
		mock.MatchedBy(func(s string) bool { return strings.HasPrefix(s, "New Pitch Submission: Ada Founder (Score: ") }),
		"", mock.Anything).Return("admin-msg", nil)
	email.On("SendEmail", mock.Anything, []string{"ada@example.com"}, mock.Anything, mock.Anything, mock.Anything).
		Return("founder-msg", nil)

	h := NewHandler(createTestConfig(), email, sms, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), inputWithBand(t, pitch.BandMedium))

	require.NoError(t, err)
	require.Len(t, out.Deliveries, 2)
	assert.Equal(t, models.Delivery{Recipient: "admin", Channel: "email", Status: "sent", MessageID: "admin-msg"}, out.Deliveries[0])
	assert.Equal(t, "founder-msg", out.Deliveries[1].MessageID)
	assert.Equal(t, models.NotificationSent, out.NotificationStatus)
	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
	email.AssertExpectations(t)
}

func TestHandler_Execute_HighBandSMS(t *testing.T) {
	email := new(MockEmailSender)
	email.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("m", nil)
	sms := new(MockSMSSender)
	sms.On("SendSMS", mock.Anything, "+15550001111",
		mock.MatchedBy(func(s string) bool { return strings.HasPrefix(s, "High-scoring pitch: Ada Founder") })).
		Return("sms-1", nil)

	h := NewHandler(createTestConfig(), email, sms, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), inputWithBand(t, pitch.BandHigh))

	require.NoError(t, err)
	require.Len(t, out.Deliveries, 3)
	assert.Equal(t, models.ChannelSMS, out.Deliveries[2].Channel)
	assert.Equal(t, "sms-1", out.Deliveries[2].MessageID)
	sms.AssertExpectations(t)
}

func TestHandler_Execute_FounderEmailUsesBandText(t *testing.T) {
	email := new(MockEmailSender)
	email.On("SendEmail", mock.Anything, []string{"admin@example.com"}, mock.Anything, mock.Anything, mock.Anything).Return("a", nil)
	email.On("SendEmail", mock.Anything, []string{"ada@example.com"}, mock.Anything,
		mock.MatchedBy(func(text string) bool { return strings.Contains(text, "preparation plan") }),
		mock.Anything).Return("f", nil)

	h := NewHandler(createTestConfig(), email, nil, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), inputWithBand(t, pitch.BandLow))

	require.NoError(t, err)
	email.AssertExpectations(t)
}

func TestHandler_Execute_PartialFailure(t *testing.T) {
	email := new(MockEmailSender)
	email.On("SendEmail", mock.Anything, []string{"admin@example.com"}, mock.Anything, mock.Anything, mock.Anything).Return("a", nil)
	email.On("SendEmail", mock.Anything, []string{"ada@example.com"}, mock.Anything, mock.Anything, mock.Anything).
		Return("", stderrors.New("MessageRejected"))

	h := NewHandler(createTestConfig(), email, nil, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), inputWithBand(t, pitch.BandMedium))

	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, out.NotificationStatus)
	assert.Equal(t, models.NotificationFailed, out.Deliveries[1].Status)
	assert.Equal(t, "MessageRejected", out.Deliveries[1].Error)
}

func TestHandler_Execute_AllFailed(t *testing.T) {
	email := new(MockEmailSender)
	email.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", stderrors.New("throttled"))

	h := NewHandler(createTestConfig(), email, nil, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), inputWithBand(t, pitch.BandMedium))

	require.Error(t, err)
	stdErr := errors.Normalize(err)
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "throttled")
}

func TestHandler_Execute_Disabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.EmailEnabled = false
	cfg.SMSEnabled = false

	h := NewHandler(cfg, nil, nil, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), inputWithBand(t, pitch.BandHigh))

	require.NoError(t, err)
	assert.Equal(t, models.NotificationDisabled, out.NotificationStatus)
	for _, d := range out.Deliveries {
		assert.Equal(t, models.NotificationDisabled, d.Status)
	}
}

func TestHandler_Execute_IncompleteQuestionnaire(t *testing.T) {
	h := NewHandler(createTestConfig(), nil, nil, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{FormData: map[string]interface{}{"fullName": "Ada"}})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidQuestionnaire, errors.Normalize(err).Code)
}

func TestTruncateSMS(t *testing.T) {
	assert.Equal(t, "short", truncateSMS("short"))
	long := truncateSMS(strings.Repeat("x", 200))
	assert.Len(t, long, 160)
	assert.True(t, strings.HasSuffix(long, "..."))
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/rpupo63/portfolio-backend/database/testdb"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type recordingNotifier struct {
	name string
	err  error

	mu   sync.Mutex
	seen []*models.Message
}

func (r *recordingNotifier) Name() string { return r.name }

func (r *recordingNotifier) Notify(_ context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, msg)
	return r.err
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

type panickingNotifier struct{}

func (panickingNotifier) Name() string { return "panic" }

func (panickingNotifier) Notify(context.Context, *models.Message) error { panic("boom") }

type fakeSMS struct {
	params *twilioApi.CreateMessageParams
}

func (f *fakeSMS) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestInbox_SubmitStoresAndNotifies(t *testing.T) {
	db := testdb.New(t)
	rec := &recordingNotifier{name: "rec", err: errors.New("smtp down")}
	dispatcher := NewDispatcher(rec)
	inbox := NewInbox(db, dispatcher)
	ctx := context.Background()

	msg := &models.Message{Name: "Ann", Email: "ann@example.com", Message: "Hello", Read: true, Replied: true}
	require.NoError(t, inbox.Submit(ctx, msg))
	dispatcher.Wait()

	assert.Equal(t, 1, rec.count())
	stored, err := db.MessageRepo().FindByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.False(t, stored.Read)
	assert.False(t, stored.Replied)
}

func TestDispatcher_RecoversFromPanics(t *testing.T) {
	d := NewDispatcher(panickingNotifier{})
	d.Dispatch(&models.Message{Name: "Ann"})
	d.Wait()
}

func TestMultiNotifier_JoinsFailures(t *testing.T) {
	ok := &recordingNotifier{name: "ok"}
	bad := &recordingNotifier{name: "bad", err: errors.New("refused")}

	err := MultiNotifier{ok, bad}.Notify(context.Background(), &models.Message{Name: "Ann"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: refused")
	assert.Equal(t, 1, ok.count())
	assert.Equal(t, 1, bad.count())
}

func TestNewNotifierFromConfig(t *testing.T) {
	assert.IsType(t, LogNotifier{}, NewNotifierFromConfig(map[string]string{}))

	email := NewNotifierFromConfig(map[string]string{
		"RESEND_API_KEY":    "re_key",
		"RESEND_FROM_EMAIL": "site@example.com",
		"NOTIFY_EMAIL":      "me@example.com",
	})
	assert.Equal(t, "email", email.Name())

	both := NewNotifierFromConfig(map[string]string{
		"RESEND_API_KEY":     "re_key",
		"RESEND_FROM_EMAIL":  "site@example.com",
		"NOTIFY_EMAIL":       "me@example.com",
		"TWILIO_ACCOUNT_SID": "AC1",
		"TWILIO_AUTH_TOKEN":  "token",
		"TWILIO_FROM_NUMBER": "+15550000000",
		"NOTIFY_PHONE":       "+15551111111",
	})
	assert.Equal(t, "multi", both.Name())
}

func TestSMSNotifier_Notify(t *testing.T) {
	fake := &fakeSMS{}
	n := &SMSNotifier{api: fake, from: "+15550000000", to: "+15551111111"}

	err := n.Notify(context.Background(), &models.Message{Name: "Ann", Email: "ann@example.com", Subject: strings.Repeat("s", 400)})
	require.NoError(t, err)
	require.NotNil(t, fake.params)
	assert.Equal(t, "+15551111111", *fake.params.To)
	assert.Equal(t, "+15550000000", *fake.params.From)
	assert.Len(t, *fake.params.Body, 300)
}

func TestSMSBody_CutsOnRuneBoundary(t *testing.T) {
	body := smsBody(&models.Message{Name: strings.Repeat("Ж", 400), Email: "ann@example.com"})

	assert.True(t, utf8.ValidString(body))
	assert.Equal(t, 300, utf8.RuneCountInString(body))
	assert.True(t, strings.HasPrefix(body, "New contact from ЖЖЖ"))

	short := smsBody(&models.Message{Name: "Анна", Email: "anna@example.com", Subject: "Привет"})
	assert.Equal(t, "New contact from Анна <anna@example.com>: Привет", short)
}

func TestEmailNotifier_SendsThroughResend(t *testing.T) {
	var got ResendEmailRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer server.Close()

	client := NewResendClient("re_key", "site@example.com")
	client.endpoint = server.URL
	n := NewEmailNotifier(client, []string{"me@example.com"})

	msg := &models.Message{Name: "Ann <b>", Email: "ann@example.com", Message: "line one\nline two"}
	require.NoError(t, n.Notify(context.Background(), msg))

	assert.Equal(t, "New Contact: No Subject - from Ann <b>", got.Subject)
	assert.Equal(t, "ann@example.com", got.ReplyTo)
	assert.Equal(t, []string{"me@example.com"}, got.To)
	assert.Contains(t, got.Html, "Ann &lt;b&gt;")
	assert.Contains(t, got.Html, "line one<br>line two")
}

func TestResendClient_ReportsAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	client := NewResendClient("re_key", "bad")
	client.endpoint = server.URL

	err := client.SendEmail(context.Background(), "s", "<p>x</p>", "", []string{"me@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"golang.org/x/sync/errgroup"
)

const notifyTimeout = 30 * time.Second

// Notifier delivers a contact message notification on one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg *models.Message) error
}

// LogNotifier writes the notification to the log. Used when no channel is configured.
type LogNotifier struct{}

func (LogNotifier) Name() string { return "log" }

func (LogNotifier) Notify(_ context.Context, msg *models.Message) error {
	log.Info().
		Str("from", msg.Name).
		Str("email", msg.Email).
		Str("subject", msg.Subject).
		Msg("New contact message (no notification channel configured)")
	return nil
}

// smsCreator is the part of the Twilio API client used to send messages.
type smsCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts a short summary of new contact messages through Twilio.
type SMSNotifier struct {
	api  smsCreator
	from string
	to   string
}

func NewSMSNotifier(accountSID, authToken, from, to string) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSNotifier{api: client.Api, from: from, to: to}
}

func (n *SMSNotifier) Name() string { return "sms" }

func (n *SMSNotifier) Notify(_ context.Context, msg *models.Message) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(smsBody(msg))

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Info().Str("sid", *resp.Sid).Msg("Sent contact SMS via Twilio")
	}
	return nil
}

const smsMaxRunes = 300

func smsBody(msg *models.Message) string {
	body := fmt.Sprintf("New contact from %s <%s>", msg.Name, msg.Email)
	if msg.Subject != "" {
		body += ": " + msg.Subject
	}
	if runes := []rune(body); len(runes) > smsMaxRunes {
		body = string(runes[:smsMaxRunes])
	}
	return body
}

// MultiNotifier fans a notification out to every channel and joins their failures.
type MultiNotifier []Notifier

func (m MultiNotifier) Name() string { return "multi" }

func (m MultiNotifier) Notify(ctx context.Context, msg *models.Message) error {
	var (
		mu       sync.Mutex
		failures []error
	)
	var g errgroup.Group
	for _, n := range m {
		g.Go(func() error {
			if err := n.Notify(ctx, msg); err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("%s: %w", n.Name(), err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(failures...)
}

// NewNotifierFromConfig builds a notifier for every configured channel: Resend email when
// RESEND_API_KEY, RESEND_FROM_EMAIL and NOTIFY_EMAIL are set, Twilio SMS when the TWILIO_*
// keys and NOTIFY_PHONE are set. With neither, messages are only logged.
func NewNotifierFromConfig(cfg map[string]string) Notifier {
	var channels MultiNotifier

	apiKey := config.GetString(cfg, "RESEND_API_KEY", "")
	from := config.GetString(cfg, "RESEND_FROM_EMAIL", "")
	recipients := config.GetList(cfg, "NOTIFY_EMAIL")
	if apiKey != "" && from != "" && len(recipients) > 0 {
		channels = append(channels, NewEmailNotifier(NewResendClient(apiKey, from), recipients))
	}

	sid := config.GetString(cfg, "TWILIO_ACCOUNT_SID", "")
	token := config.GetString(cfg, "TWILIO_AUTH_TOKEN", "")
	fromNumber := config.GetString(cfg, "TWILIO_FROM_NUMBER", "")
	phone := config.GetString(cfg, "NOTIFY_PHONE", "")
	if sid != "" && token != "" && fromNumber != "" && phone != "" {
		channels = append(channels, NewSMSNotifier(sid, token, fromNumber, phone))
	}

	switch len(channels) {
	case 0:
		log.Warn().Msg("No notification channel configured, contact messages will be logged only")
		return LogNotifier{}
	case 1:
		return channels[0]
	default:
		return channels
	}
}

// Dispatcher sends notifications in the background. Failures are logged and never reach the
// caller.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(notifier Notifier) *Dispatcher {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Dispatcher{notifier: notifier, timeout: notifyTimeout}
}

// Dispatch returns immediately; delivery happens on its own goroutine.
func (d *Dispatcher) Dispatch(msg *models.Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("Notification panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.notifier.Notify(ctx, msg); err != nil {
			log.Error().Err(err).Str("messageId", msg.ID.String()).Msg("Failed to send contact notification")
		}
	}()
}

// Wait blocks until in-flight notifications finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

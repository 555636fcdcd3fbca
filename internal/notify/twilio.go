package notify

import (
	"context"
	"errors"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// MaxSMSLength is the longest body Twilio accepts for one message.
const MaxSMSLength = 1600

// DefaultCountryCode is prefixed to numbers given without one.
const DefaultCountryCode = "+91"

// messageCreator is the part of the Twilio API used here.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioConfig holds Twilio credentials and the sending number.
type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	FromNumber  string
	CountryCode string
}

// Configured reports whether every credential is present.
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

// Twilio sends SMS through the Twilio REST API.
type Twilio struct {
	api         messageCreator
	from        string
	countryCode string
	logger      *zap.Logger
}

// New returns a Twilio notifier, or Noop when cfg is incomplete.
func New(cfg TwilioConfig, logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Configured() {
		logger.Info("twilio not configured, notifications will be skipped")
		return Noop{}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newTwilio(client.Api, cfg, logger)
}

func newTwilio(api messageCreator, cfg TwilioConfig, logger *zap.Logger) *Twilio {
	cc := cfg.CountryCode
	if cc == "" {
		cc = DefaultCountryCode
	}
	return &Twilio{api: api, from: cfg.FromNumber, countryCode: cc, logger: logger}
}

// Send delivers text to the phone number destination, truncated to MaxSMSLength.
func (t *Twilio) Send(ctx context.Context, text, destination string) error {
	to := NormalizeNumber(destination, t.countryCode)
	if to == "" {
		return &Error{Destination: destination, Cause: errors.New("invalid phone number")}
	}
	if err := ctx.Err(); err != nil {
		return &Error{Destination: to, Cause: err}
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(Truncate(text, MaxSMSLength))

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return &Error{Destination: to, Cause: err}
	}
	if resp != nil && resp.Sid != nil {
		t.logger.Debug("sms queued", zap.String("sid", *resp.Sid))
	}
	return nil
}

// NormalizeNumber converts a phone number to E.164. Separators are removed and
// numbers without a leading "+" get countryCode. It returns "" when nothing
// usable remains.
func NormalizeNumber(number, countryCode string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(number) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	n := b.String()
	if strings.HasPrefix(n, "+") {
		if len(n) < 8 {
			return ""
		}
		return n
	}

	n = strings.TrimLeft(n, "0")
	cc := strings.TrimPrefix(countryCode, "+")
	if len(n) > 10 && cc != "" && strings.HasPrefix(n, cc) && len(n)-len(cc) == 10 {
		return "+" + n
	}
	if len(n) < 7 {
		return ""
	}
	return "+" + cc + n
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

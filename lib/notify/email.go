// Package notify mails finished reports.
package notify

import (
	"autocamp/lib/report"
	"autocamp/lib/telemetry"
	"context"
	"fmt"
	"net/smtp"
	"path/filepath"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("autocamp.lib.notify")

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type Config struct {
	Smtp SmtpConfig `json:"smtp"`
	To   []string   `json:"to"`
}

func (c Config) Enabled() bool {
	return c.Smtp.Server != "" && len(c.To) > 0
}

// Summary is what the message says about the run.
type Summary struct {
	Input  string
	Output string
	Rows   []report.Row
}

func countAmp(rows []report.Row) (amp int) {
	for _, r := range rows {
		if r.SVM.Class == "AMP" {
			amp++
		}
	}
	return amp
}

// NewMessage builds the message for a finished run with the csv attached.
func NewMessage(c Config, s Summary) (*email.Email, error) {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("autocamp <%s>", c.Smtp.EmailAddress)
	mail.To = c.To
	mail.Subject = fmt.Sprintf("CAMP predictions for %s", filepath.Base(s.Input))

	var body strings.Builder
	fmt.Fprintf(&body, "CAMP finished predicting %d sequences from %s.\n", len(s.Rows), s.Input)
	fmt.Fprintf(&body, "%d of them are classified as AMP by SVM.\n\n", countAmp(s.Rows))
	report.RenderTable(&body, s.Rows, report.HeaderANN)
	mail.Text = []byte(body.String())

	_, err := mail.AttachFile(s.Output)
	if err != nil {
		return nil, errors.Wrapf(err, "attach %s", s.Output)
	}
	return mail, nil
}

// Send mails the summary of a run to every configured recipient.
func Send(ctx context.Context, c Config, s Summary) error {
	ctx, span := tracer.Start(ctx, "Send")
	defer span.End()

	mail, err := NewMessage(c, s)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build message")
		return err
	}

	addr := fmt.Sprintf("%s:%d", c.Smtp.Server, c.Smtp.Port)
	err = mail.Send(addr, smtp.PlainAuth("", c.Smtp.EmailAddress, c.Smtp.Password, c.Smtp.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}

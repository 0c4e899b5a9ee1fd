package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func TestSMTPMailService_Send(t *testing.T) {
	d := &recordingDialer{}
	s := &SMTPMailService{dialer: d, from: "recruiting@example.com", limiter: newSendLimiter(0)}

	err := s.Send(context.Background(), model.Email{
		To:      []string{"candidate@example.com"},
		Cc:      []string{"lead@example.com"},
		Subject: "Interview Confirmed - Backend Engineer",
		HTML:    "<p>See you soon</p>",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"candidate@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"lead@example.com"}, msg.GetHeader("Cc"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
}

func TestSMTPMailService_SendErrors(t *testing.T) {
	s := &SMTPMailService{dialer: &recordingDialer{err: errors.New("535 auth failed")}, limiter: newSendLimiter(0)}

	assert.Error(t, s.Send(context.Background(), model.Email{Subject: "x"}), "no recipients")

	err := s.Send(context.Background(), model.Email{To: []string{"a@example.com"}, Subject: "x"})
	assert.ErrorContains(t, err, "535 auth failed")
}

func TestSMTPMailService_CancelledContext(t *testing.T) {
	s := &SMTPMailService{dialer: &recordingDialer{}, limiter: newSendLimiter(1)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the first token is available immediately, the second must wait and sees the cancel
	_ = s.Send(context.Background(), model.Email{To: []string{"a@example.com"}})
	assert.Error(t, s.Send(ctx, model.Email{To: []string{"a@example.com"}}))
}

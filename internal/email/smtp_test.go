package email

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"strings"
	"testing"

	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPClientSend(t *testing.T) {
	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  []byte
	)
	c := NewSMTPClient(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "user", Password: "pass"})
	c.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	pdf := []byte(strings.Repeat("%PDF", 100))
	id, err := c.Send(context.Background(), &Message{
		From:    "billing@example.com",
		To:      []string{"client@example.com"},
		Subject: "invoice ready",
		Text:    "invoice can be found in attachment",
		Attachments: []Attachment{{
			Filename:    "Invoice.pdf",
			ContentType: ContentTypePDF,
			Content:     pdf,
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, id, "@smtp.example.com>")
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "billing@example.com", gotFrom)
	assert.Equal(t, []string{"client@example.com"}, gotTo)

	parsed, err := mail.ReadMessage(strings.NewReader(string(gotMsg)))
	require.NoError(t, err)
	assert.Equal(t, id, parsed.Header.Get("Message-ID"))

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	r := multipart.NewReader(parsed.Body, params["boundary"])
	body, err := r.NextPart()
	require.NoError(t, err)
	text, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "invoice can be found in attachment", string(text))

	att, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "Invoice.pdf", att.FileName())
	encoded, err := io.ReadAll(att)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(string(encoded)), "\r\n") {
		assert.LessOrEqual(t, len(line), maxLineLength)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, pdf, decoded)
}

func TestSMTPClientSendFailure(t *testing.T) {
	c := NewSMTPClient(SMTPConfig{Host: "smtp.example.com", Port: 25})
	c.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("550 mailbox unavailable")
	}

	_, err := c.Send(context.Background(), &Message{From: "a@example.com", To: []string{"b@example.com"}})
	assert.True(t, ierr.IsUpstream(err))
}

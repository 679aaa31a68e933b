package email

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildMultipartMessage(t *testing.T) {
	msg := &Message{
		To:       "anna@example.de",
		ToName:   "Anna Becker",
		Subject:  "Ihr Angebot für den Umzug",
		HTMLBody: "<p>Hallo</p><img src=\"cid:qr\">",
		Attachments: []Attachment{
			{Filename: "Angebot.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3 test")},
		},
		Inline: []Attachment{
			{Filename: "qr.png", ContentType: "image/png", ContentID: "qr", Data: []byte{0x89, 'P', 'N', 'G'}},
		},
	}
	date := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

	raw, err := Build("Relocato", "info@relocato.de", "<abc@relocato.de>", date, msg)
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "<abc@relocato.de>", parsed.Header.Get("Message-ID"))

	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Ihr Angebot für den Umzug", subject)

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	reader := multipart.NewReader(parsed.Body, params["boundary"])
	first, err := reader.NextPart()
	require.NoError(t, err)
	relatedType, relatedParams, err := mime.ParseMediaType(first.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/related", relatedType)

	related := multipart.NewReader(first, relatedParams["boundary"])
	var relatedTypes []string
	for {
		p, err := related.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ct, _, _ := mime.ParseMediaType(p.Header.Get("Content-Type"))
		relatedTypes = append(relatedTypes, ct)
		if ct == "image/png" {
			assert.Equal(t, "<qr>", p.Header.Get("Content-ID"))
		}
	}
	assert.Equal(t, []string{"multipart/alternative", "image/png"}, relatedTypes)

	attachment, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "Angebot.pdf", attachment.FileName())
	assert.Equal(t, "base64", attachment.Header.Get("Content-Transfer-Encoding"))

	_, err = reader.NextPart()
	assert.Equal(t, io.EOF, err)
}

func TestRenderQuoteEmail(t *testing.T) {
	body, err := RenderQuoteEmail(QuoteEmailData{
		Greeting:        "Sehr geehrte Frau Becker,",
		DocumentTitle:   "Angebot",
		DocumentNumber:  "2026-1017-001",
		Total:           "1.194,76 €",
		ConfirmationURL: "https://app.relocato.de/quote-confirmation/abc",
		QRContentID:     "qr",
		CompanyName:     "Relocato Bielefeld",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "2026-1017-001")
	assert.Contains(t, body, "cid:qr")
	assert.Contains(t, body, "https://app.relocato.de/quote-confirmation/abc")

	text := PlainText(body)
	assert.Contains(t, text, "Sehr geehrte Frau Becker,")
	assert.NotContains(t, text, "<p>")
}

func TestInvoiceEmailHasNoConfirmationLink(t *testing.T) {
	body, err := RenderQuoteEmail(QuoteEmailData{DocumentTitle: "Rechnung", DocumentNumber: "2026-1017-002"})
	require.NoError(t, err)
	assert.Contains(t, body, "unsere Rechnung")
	assert.NotContains(t, body, "Angebot bestätigen")
}

func TestSendersRejectMissingRecipient(t *testing.T) {
	_, err := NewLogSender(zap.NewNop()).Send(context.Background(), &Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrNoRecipient)

	_, err = NewSMTPSender(Config{SMTPHost: "localhost", SMTPPort: 25}).Send(context.Background(), &Message{To: "  "})
	assert.ErrorIs(t, err, ErrNoRecipient)

	id, err := NewLogSender(zap.NewNop()).Send(context.Background(), &Message{To: "anna@example.de"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "<") && strings.HasSuffix(id, "@localhost>"))
}

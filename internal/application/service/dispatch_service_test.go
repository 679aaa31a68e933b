package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/config"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/apperror"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []*email.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg *email.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "<msg-1@relocato.de>", nil
}

func newDispatch(set *serviceSet, sender email.Sender) *DispatchService {
	s := NewDispatchService(set.quotes, newTestDocumentService(),
		repository.NewDocumentCounterRepository(set.db), set.quotes.companies, sender,
		"https://app.relocato.de/", zap.NewNop())
	s.now = func() time.Time { return fixedIssue }
	return s
}

func TestSendQuoteMarksSent(t *testing.T) {
	set := newServiceSet(t)
	customer := set.customer(t, "Anna Becker")
	q := createQuote(t, set, customer, "")
	sender := &fakeSender{}

	res, err := newDispatch(set, sender).SendQuote(context.Background(), q.ID, "", enum.DocumentModeOffer)
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.Equal(t, "<msg-1@relocato.de>", res.MessageID)
	assert.Equal(t, "kunde@example.de", res.Recipient)
	assert.Equal(t, "2026-1017-001", res.DocumentNumber)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "Angebot_2026-1017-001.pdf", msg.Attachments[0].Filename)
	assert.True(t, bytes.HasPrefix(msg.Attachments[0].Data, []byte("%PDF")))
	require.Len(t, msg.Inline, 1)
	assert.Contains(t, msg.HTMLBody, "https://app.relocato.de/quote-confirmation/"+*q.ConfirmationToken)
	assert.Contains(t, msg.HTMLBody, "1.450,50 €")

	got, err := set.quotes.GetQuote(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.QuoteStatusSent, got.Status)
	assert.NotNil(t, got.SentAt)
}

func TestSendQuoteFailureLeavesRecordUnchanged(t *testing.T) {
	set := newServiceSet(t)
	customer := set.customer(t, "Anna Becker")
	q := createQuote(t, set, customer, "")

	_, err := newDispatch(set, &fakeSender{err: errors.New("535 authentication failed")}).
		SendQuote(context.Background(), q.ID, "anna@example.de", enum.DocumentModeOffer)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrDispatch))

	got, err := set.quotes.GetQuote(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.QuoteStatusDraft, got.Status)
	assert.Nil(t, got.SentAt)
	assert.True(t, got.Price.Equal(q.Price))
}

func TestDocumentNumbersCountPerDay(t *testing.T) {
	set := newServiceSet(t)
	customer := set.customer(t, "Anna Becker")
	ctx := context.Background()
	dispatch := newDispatch(set, &fakeSender{})

	preview, err := dispatch.Prepare(ctx, createQuote(t, set, customer, "").ID, enum.DocumentModeOffer)
	require.NoError(t, err)
	assert.Equal(t, "2026-1017-001", preview.Document.DocumentNumber)

	first, err := dispatch.SendQuote(ctx, createQuote(t, set, customer, "").ID, "", enum.DocumentModeOffer)
	require.NoError(t, err)
	second, err := dispatch.SendQuote(ctx, createQuote(t, set, customer, "").ID, "", enum.DocumentModeOffer)
	require.NoError(t, err)
	assert.Equal(t, "2026-1017-001", first.DocumentNumber)
	assert.Equal(t, "2026-1017-002", second.DocumentNumber)

	preview, err = dispatch.Prepare(ctx, createQuote(t, set, customer, "").ID, enum.DocumentModeOffer)
	require.NoError(t, err)
	assert.Equal(t, "2026-1017-003", preview.Document.DocumentNumber)

	dispatch.now = func() time.Time { return fixedIssue.AddDate(0, 0, 1) }
	next, err := dispatch.SendQuote(ctx, createQuote(t, set, customer, "").ID, "", enum.DocumentModeOffer)
	require.NoError(t, err)
	assert.Equal(t, "2026-1018-001", next.DocumentNumber)
}

func TestSendInvoiceHasNoConfirmation(t *testing.T) {
	set := newServiceSet(t)
	customer := set.customer(t, "Anna Becker")
	q := createQuote(t, set, customer, "confirmed")
	sender := &fakeSender{}

	_, err := newDispatch(set, sender).SendQuote(context.Background(), q.ID, "buchhaltung@example.de", enum.DocumentModeInvoice)
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Empty(t, sender.sent[0].Inline)
	assert.Equal(t, "Rechnung_2026-1017-001.pdf", sender.sent[0].Attachments[0].Filename)

	got, err := set.quotes.GetQuote(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.QuoteStatusConfirmed, got.Status)
	assert.NotNil(t, got.SentAt)
}

func TestSendQuoteWithoutAddress(t *testing.T) {
	set := newServiceSet(t)
	created, err := set.customers.CreateCustomer(context.Background(), &CustomerInput{Name: "Ohne Mail"})
	require.NoError(t, err)
	q := createQuote(t, set, created, "")

	_, err = newDispatch(set, &fakeSender{}).SendQuote(context.Background(), q.ID, "", enum.DocumentModeOffer)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestQRCodePNG(t *testing.T) {
	data, err := QRCodePNG(ConfirmationURL("https://app.relocato.de/", "tok"), 200)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, "https://app.relocato.de/quote-confirmation/tok", ConfirmationURL("https://app.relocato.de/", "tok"))
}

func TestNewDispatchServiceTrimsFrontendURL(t *testing.T) {
	s := NewDispatchService(nil, NewDocumentService(config.QuoteConfig{}), nil, nil, &fakeSender{}, "https://x.de//", zap.NewNop())
	assert.Equal(t, "https://x.de", s.frontendURL)
}

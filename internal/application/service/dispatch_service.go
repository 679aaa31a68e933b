package service

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/logger"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/apperror"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/email"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/money"
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"go.uber.org/zap"
)

const (
	qrSize      = 240
	qrContentID = "confirmation-qr"
)

// DispatchResult reports the outcome of sending a quote.
type DispatchResult struct {
	Sent           bool   `json:"sent"`
	MessageID      string `json:"message_id"`
	DocumentNumber string `json:"document_number"`
	Recipient      string `json:"recipient"`
}

// PreparedDocument is a rendered quote ready for download or mailing.
type PreparedDocument struct {
	Quote    *entity.Quote
	Customer *entity.Customer
	Profile  entity.CompanyProfile
	Document *RenderedDocument
	Filename string
}

// DispatchService renders quotes and mails them to customers.
type DispatchService struct {
	quotes      *QuoteService
	documents   *DocumentService
	counters    repository.DocumentCounterRepository
	companies   *CompanyService
	sender      email.Sender
	frontendURL string
	log         *zap.Logger
	now         func() time.Time
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(
	quotes *QuoteService,
	documents *DocumentService,
	counters repository.DocumentCounterRepository,
	companies *CompanyService,
	sender email.Sender,
	frontendURL string,
	log *zap.Logger,
) *DispatchService {
	return &DispatchService{
		quotes:      quotes,
		documents:   documents,
		counters:    counters,
		companies:   companies,
		sender:      sender,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
		now:         time.Now,
	}
}

// Prepare loads a quote with its customer and renders it in mode. The
// document carries the number the next send would reserve.
func (s *DispatchService) Prepare(ctx context.Context, quoteID string, mode enum.DocumentMode) (*PreparedDocument, error) {
	return s.prepare(ctx, quoteID, mode, false)
}

func (s *DispatchService) prepare(ctx context.Context, quoteID string, mode enum.DocumentMode, reserve bool) (*PreparedDocument, error) {
	quote, customer, err := s.quotes.GetQuoteWithCustomer(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	calc := s.quotes.Calculate(quote, customer)
	profile := s.companies.Profile(quote.Company)

	issued := s.now()
	seq, err := s.sequence(ctx, issued, reserve)
	if err != nil {
		return nil, err
	}

	doc, err := s.documents.Render(RenderInput{
		Customer:    customer,
		Quote:       quote,
		Calculation: &calc,
		Profile:     profile,
		Mode:        mode,
		IssuedAt:    issued,
		Sequence:    seq,
	})
	if err != nil {
		return nil, err
	}
	return &PreparedDocument{
		Quote:    quote,
		Customer: customer,
		Profile:  profile,
		Document: doc,
		Filename: fmt.Sprintf("%s_%s.pdf", mode.Title(), doc.DocumentNumber),
	}, nil
}

// sequence returns the document counter for the issue day. Numbers are
// only reserved for documents that are mailed.
func (s *DispatchService) sequence(ctx context.Context, issued time.Time, reserve bool) (int, error) {
	if s.counters == nil {
		return 1, nil
	}
	day := issued.Format("2006-01-02")
	if reserve {
		seq, err := s.counters.Next(ctx, day)
		if err != nil {
			return 0, apperror.NewPersistenceError("reserve document number", err)
		}
		return seq, nil
	}
	last, err := s.counters.Current(ctx, day)
	if err != nil {
		return 0, apperror.NewPersistenceError("load document number", err)
	}
	return last + 1, nil
}

// SendQuote renders the quote, mails it with the PDF attached and marks
// it sent. A failed send leaves the stored quote untouched.
func (s *DispatchService) SendQuote(ctx context.Context, quoteID, to string, mode enum.DocumentMode) (*DispatchResult, error) {
	log := logger.FromContext(ctx, s.log)

	prepared, err := s.prepare(ctx, quoteID, mode, true)
	if err != nil {
		return nil, err
	}
	quote, customer := prepared.Quote, prepared.Customer

	to = strings.TrimSpace(to)
	if to == "" {
		to = customer.Email
	}
	if to == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "to", Message: "Customer has no email address"},
		})
	}

	msg, err := s.buildMessage(prepared, to, mode)
	if err != nil {
		return nil, err
	}

	messageID, err := s.sender.Send(ctx, msg)
	if err != nil {
		log.Error("quote email failed",
			zap.String("quote_id", quote.ID),
			zap.String("to", to),
			zap.Error(err))
		return nil, apperror.NewDispatchError("Failed to send quote email", err)
	}

	if err := s.quotes.MarkSent(ctx, quote, s.now()); err != nil {
		// The mail is out; report success and leave the status for a retry.
		log.Error("quote sent but status not recorded",
			zap.String("quote_id", quote.ID),
			zap.Error(err))
	}

	log.Info("quote sent",
		zap.String("quote_id", quote.ID),
		zap.String("to", to),
		zap.String("document_number", prepared.Document.DocumentNumber),
		zap.String("message_id", messageID))

	return &DispatchResult{
		Sent:           true,
		MessageID:      messageID,
		DocumentNumber: prepared.Document.DocumentNumber,
		Recipient:      to,
	}, nil
}

func (s *DispatchService) buildMessage(p *PreparedDocument, to string, mode enum.DocumentMode) (*email.Message, error) {
	data := email.QuoteEmailData{
		Greeting:       letterGreeting(p.Customer),
		DocumentTitle:  mode.Title(),
		DocumentNumber: p.Document.DocumentNumber,
		Total:          money.FormatEUR(s.quotes.Calculate(p.Quote, p.Customer).FinalPrice),
		CompanyName:    p.Profile.Name,
		CompanyPhone:   p.Profile.Phone,
		CompanyEmail:   p.Profile.Email,
		CompanyWebsite: p.Profile.Website,
	}
	if p.Quote.MoveDate != nil {
		data.MoveDate = FormatGermanDate(*p.Quote.MoveDate)
	}

	msg := &email.Message{
		To:      to,
		ToName:  p.Customer.Name,
		Subject: fmt.Sprintf("Ihr %s %s von %s", mode.Title(), p.Document.DocumentNumber, p.Profile.Name),
		Attachments: []email.Attachment{{
			Filename:    p.Filename,
			ContentType: "application/pdf",
			Data:        p.Document.Bytes,
		}},
	}

	if mode == enum.DocumentModeOffer && p.Quote.ConfirmationToken != nil {
		data.ConfirmationURL = ConfirmationURL(s.frontendURL, *p.Quote.ConfirmationToken)
		code, err := QRCodePNG(data.ConfirmationURL, qrSize)
		if err != nil {
			return nil, apperror.NewRenderError("Failed to generate QR code", err)
		}
		data.QRContentID = qrContentID
		msg.Inline = append(msg.Inline, email.Attachment{
			Filename:    "bestaetigung.png",
			ContentType: "image/png",
			ContentID:   qrContentID,
			Data:        code,
		})
	}

	body, err := email.RenderQuoteEmail(data)
	if err != nil {
		return nil, apperror.NewRenderError("Failed to render email", err)
	}
	msg.HTMLBody = body
	return msg, nil
}

// ConfirmationURL is the public page where a customer answers a quote.
func ConfirmationURL(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/quote-confirmation/" + token
}

// QRCodePNG encodes content as a size×size PNG QR code.
func QRCodePNG(content string, size int) ([]byte, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("scale qr: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

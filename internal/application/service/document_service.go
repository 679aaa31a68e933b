package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/config"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/apperror"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/money"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/pdf"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/utils"
	"github.com/shopspring/decimal"
)

// Font sizes in points.
const (
	fsCompanyName = 16
	fsServices    = 8
	fsContact     = 8
	fsAddressLine = 7
	fsRecipient   = 9
	fsReference   = 11
	fsDate        = 9
	fsBody        = 10
	fsTable       = 9
	fsServiceDesc = 8
	fsFooter      = 7
)

const (
	pageMargin    = 15.0
	footerReserve = 30.0
	headerRowH    = 8.0
	minRowHeight  = 7.0
	cellPadding   = 3.0
	rowPaddingV   = 2.0
	flatQuantity  = "pauschal"
)

// Column shares of the content width: Pos., Beschreibung, Menge, Einzelpreis.
var columnShares = [4]float64{0.08, 0.62, 0.15, 0.15}

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// RenderInput is everything needed to lay out one document.
type RenderInput struct {
	Customer    *entity.Customer
	Quote       *entity.Quote
	Calculation *entity.QuoteCalculation
	Profile     entity.CompanyProfile
	Mode        enum.DocumentMode
	IssuedAt    time.Time
	// Sequence is the per-day document counter; values below 1 mean 1.
	Sequence int
}

// RenderedDocument is the output of a render.
type RenderedDocument struct {
	Bytes          []byte
	Pages          int
	DocumentNumber string
	TotalText      string
}

// DocumentService lays out offers and invoices as PDF.
type DocumentService struct {
	offerValidityDays int
	paymentTermDays   int
	now               func() time.Time
}

// NewDocumentService creates a new document service
func NewDocumentService(cfg config.QuoteConfig) *DocumentService {
	s := &DocumentService{
		offerValidityDays: cfg.OfferValidityDays,
		paymentTermDays:   cfg.PaymentTermDays,
		now:               time.Now,
	}
	if s.offerValidityDays <= 0 {
		s.offerValidityDays = 30
	}
	if s.paymentTermDays <= 0 {
		s.paymentTermDays = 14
	}
	return s
}

// RenderDocument renders the quote issued today.
func (s *DocumentService) RenderDocument(customer *entity.Customer, quote *entity.Quote, calc *entity.QuoteCalculation, profile entity.CompanyProfile, mode enum.DocumentMode) ([]byte, error) {
	doc, err := s.Render(RenderInput{
		Customer:    customer,
		Quote:       quote,
		Calculation: calc,
		Profile:     profile,
		Mode:        mode,
		IssuedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}
	return doc.Bytes, nil
}

// Render lays out the document. Any failure yields a render error and no
// bytes.
func (s *DocumentService) Render(in RenderInput) (*RenderedDocument, error) {
	if err := validateRenderInput(in); err != nil {
		return nil, err
	}
	if in.Mode == "" {
		in.Mode = enum.DocumentModeOffer
	}
	if in.IssuedAt.IsZero() {
		in.IssuedAt = s.now()
	}

	w := &documentWriter{
		svc:    s,
		in:     in,
		number: utils.GenerateDocumentNumber(in.IssuedAt, in.Sequence),
		doc: pdf.New(pdf.Options{
			Margin:        pageMargin,
			FooterReserve: footerReserve,
			Title:         in.Mode.Title() + " " + in.Quote.ID,
			Author:        in.Profile.Name,
			CreatedAt:     in.IssuedAt,
		}),
	}
	w.doc.SetFooter(w.footer)

	w.header()
	w.recipient()
	w.reference()
	w.greeting()
	w.table()
	w.totals()
	w.terms()
	w.signature()

	out, err := w.doc.Output()
	if err != nil {
		return nil, apperror.NewRenderError("Failed to generate document", err)
	}
	return &RenderedDocument{
		Bytes:          out,
		Pages:          w.doc.PageCount(),
		DocumentNumber: w.number,
		TotalText:      w.totalText,
	}, nil
}

func validateRenderInput(in RenderInput) error {
	switch {
	case in.Quote == nil:
		return apperror.NewRenderError("Quote is required", nil)
	case in.Calculation == nil:
		return apperror.NewRenderError("Calculation is required", nil)
	case in.Customer == nil || strings.TrimSpace(in.Customer.Name) == "":
		return apperror.NewRenderError("Customer name is required", nil)
	case in.Profile.Name == "" || in.Profile.LegalName == "":
		return apperror.NewRenderError("Company profile is incomplete", nil)
	case in.Mode != "" && in.Mode != enum.DocumentModeOffer && in.Mode != enum.DocumentModeInvoice:
		return apperror.NewRenderError("Unknown document mode", errors.New(string(in.Mode)))
	}
	return nil
}

// FormatGermanDate renders "17. Oktober 2026".
func FormatGermanDate(t time.Time) string {
	return fmt.Sprintf("%d. %s %d", t.Day(), germanMonths[t.Month()-1], t.Year())
}

func formatShortDate(t time.Time) string {
	return t.Format("02.01.2006")
}

type tableRow struct {
	title    string
	detail   string
	quantity string
	price    decimal.Decimal
}

type documentWriter struct {
	svc       *DocumentService
	in        RenderInput
	doc       *pdf.Document
	number    string
	totalText string
}

func (w *documentWriter) isInvoice() bool {
	return w.in.Mode == enum.DocumentModeInvoice
}

func (w *documentWriter) left() float64  { return w.doc.Margin() }
func (w *documentWriter) right() float64 { return w.doc.PageWidth() - w.doc.Margin() }

func (w *documentWriter) header() {
	d, p := w.doc, w.in.Profile
	top := d.Y()
	half := d.ContentWidth() * 0.6

	d.SetFont(pdf.StyleBold, fsCompanyName)
	d.Text(w.left(), top, half, p.Name, pdf.AlignLeft)
	y := top + pdf.LineHeight(fsCompanyName)

	if p.Tagline != "" {
		d.SetFont(pdf.StyleRegular, fsServices)
		y += d.Lines(w.left(), y, half, d.WrapText(p.Tagline, half), pdf.AlignLeft)
	}

	contact := []string{p.Street, p.Zip + " " + p.City, "Tel: " + p.Phone}
	if p.Mobile != "" {
		contact = append(contact, "Mobil: "+p.Mobile)
	}
	contact = append(contact, p.Email)
	if p.Website != "" {
		contact = append(contact, p.Website)
	}
	d.SetFont(pdf.StyleRegular, fsContact)
	contactWidth := d.ContentWidth() - half
	contactBottom := top + d.Lines(w.right()-contactWidth, top, contactWidth, contact, pdf.AlignRight)
	if contactBottom > y {
		y = contactBottom
	}

	y += 4
	d.SetFont(pdf.StyleRegular, fsAddressLine)
	d.Text(w.left(), y, d.ContentWidth(), p.SenderLine(), pdf.AlignLeft)
	lineY := y + pdf.LineHeight(fsAddressLine)
	d.Line(w.left(), lineY, w.right(), lineY, 0.1)
	d.SetY(lineY + 6)
}

func (w *documentWriter) recipient() {
	d := w.doc
	d.SetFont(pdf.StyleRegular, fsRecipient)
	d.Advance(d.Lines(w.left(), d.Y(), d.ContentWidth()*0.6, w.in.Customer.RecipientLines(), pdf.AlignLeft))
	d.Advance(10)
}

func (w *documentWriter) reference() {
	d := w.doc
	y := d.Y()

	d.SetFont(pdf.StyleBold, fsReference)
	d.Text(w.left(), y, d.ContentWidth()*0.6, w.in.Mode.Title()+" Nr. "+w.number, pdf.AlignLeft)

	d.SetFont(pdf.StyleRegular, fsDate)
	d.Text(w.left(), y, d.ContentWidth(), w.in.Profile.City+", "+FormatGermanDate(w.in.IssuedAt), pdf.AlignRight)

	d.Advance(pdf.LineHeight(fsReference) + 6)
}

// letterGreeting is the salutation line shared by documents and emails.
func letterGreeting(c *entity.Customer) string {
	switch c.Salutation {
	case enum.SalutationHerr:
		return "Sehr geehrter Herr " + c.LastName() + ","
	case enum.SalutationFrau:
		return "Sehr geehrte Frau " + c.LastName() + ","
	default:
		return "Sehr geehrte Damen und Herren,"
	}
}

func (w *documentWriter) greeting() {
	d := w.doc
	d.SetFont(pdf.StyleRegular, fsBody)

	greeting := letterGreeting(w.in.Customer)
	intro := "vielen Dank für Ihre Anfrage. Gerne unterbreiten wir Ihnen folgendes Angebot:"
	if w.isInvoice() {
		intro = "vielen Dank für Ihren Auftrag. Wir berechnen Ihnen folgende Leistungen:"
	}

	d.EnsureSpace(3 * pdf.LineHeight(fsBody))
	d.Paragraph(w.left(), d.ContentWidth(), greeting, pdf.AlignLeft)
	d.Advance(1)
	d.Paragraph(w.left(), d.ContentWidth(), intro, pdf.AlignLeft)
	d.Advance(5)
}

func (w *documentWriter) rows() []tableRow {
	calc, q := w.in.Calculation, w.in.Quote

	moveDetail := ""
	if q.MoveFrom != nil && q.MoveTo != nil && *q.MoveFrom != "" && *q.MoveTo != "" {
		moveDetail = "von " + *q.MoveFrom + " nach " + *q.MoveTo
	}
	rows := []tableRow{{
		title:    "Umzug " + calc.VolumeRange,
		detail:   strings.TrimSpace("Transport mit Fachpersonal und Umzugsfahrzeug, Be- und Entladen. " + moveDetail),
		quantity: flatQuantity,
		price:    calc.BasePrice,
	}}

	if calc.FloorSurcharge.IsPositive() {
		rows = append(rows, tableRow{
			title:    "Etagenzuschlag",
			detail:   fmt.Sprintf("%d. Etage ohne Aufzug", w.in.Customer.Apartment.Floor),
			quantity: flatQuantity,
			price:    calc.FloorSurcharge,
		})
	}
	if calc.DistanceSurcharge.IsPositive() {
		rows = append(rows, tableRow{
			title:    "Entfernungszuschlag",
			detail:   money.FormatQuantity(q.Distance) + " km",
			quantity: flatQuantity,
			price:    calc.DistanceSurcharge,
		})
	}

	for _, item := range calc.AddOns {
		qty := flatQuantity
		if item.Unit != flatQuantity {
			qty = money.FormatQuantity(item.Quantity) + " " + item.Unit
		}
		rows = append(rows, tableRow{
			title:    item.Label,
			detail:   serviceDetail(item.Kind),
			quantity: qty,
			price:    item.UnitPrice,
		})
	}
	return rows
}

func serviceDetail(kind entity.ServiceKind) string {
	switch kind {
	case entity.ServicePacking:
		return "Fachgerechtes Einpacken des Umzugsguts durch unser Team"
	case entity.ServiceCleaning:
		return "Besenreine Endreinigung der Auszugswohnung"
	case entity.ServiceClearance:
		return "Räumung und fachgerechte Entsorgung"
	case entity.ServiceParkingZone:
		return "Beantragung und Aufstellung der Halteverbotszone"
	case entity.ServiceStorage:
		return "Zwischenlagerung in unserem Lager"
	}
	return ""
}

func (w *documentWriter) columns() (xs [4]float64, widths [4]float64) {
	x := w.left()
	for i, share := range columnShares {
		widths[i] = w.doc.ContentWidth() * share
		xs[i] = x
		x += widths[i]
	}
	return xs, widths
}

func (w *documentWriter) tableHeader() {
	d := w.doc
	xs, widths := w.columns()
	y := d.Y()

	d.FillRect(w.left(), y, d.ContentWidth(), headerRowH, 240)
	d.SetFont(pdf.StyleBold, fsTable)
	textY := y + (headerRowH-pdf.LineHeight(fsTable))/2
	d.Text(xs[0], textY, widths[0], "Pos.", pdf.AlignCenter)
	d.Text(xs[1]+cellPadding, textY, widths[1]-2*cellPadding, "Beschreibung", pdf.AlignLeft)
	d.Text(xs[2], textY, widths[2], "Menge", pdf.AlignCenter)
	d.Text(xs[3], textY, widths[3]-cellPadding, "Einzelpreis", pdf.AlignRight)
	d.Line(w.left(), y+headerRowH, w.right(), y+headerRowH, 0.2)
	d.Advance(headerRowH)
}

// rowLayout wraps the description of row and returns the lines and the
// resulting row height.
func (w *documentWriter) rowLayout(row tableRow) ([]string, float64) {
	d := w.doc
	_, widths := w.columns()
	descWidth := widths[1] - 2*cellPadding

	d.SetFont(pdf.StyleBold, fsTable)
	titleLines := d.WrapText(row.title, descWidth)
	height := float64(len(titleLines)) * pdf.LineHeight(fsTable)

	var detailLines []string
	if row.detail != "" {
		d.SetFont(pdf.StyleRegular, fsServiceDesc)
		detailLines = d.WrapText(row.detail, descWidth)
		height += float64(len(detailLines)) * pdf.LineHeight(fsServiceDesc)
	}

	h := height + 2*rowPaddingV
	if h < minRowHeight {
		h = minRowHeight
	}
	return append(titleLines, detailLines...), h
}

func (w *documentWriter) table() {
	d := w.doc
	xs, widths := w.columns()

	d.EnsureSpace(headerRowH + minRowHeight)
	w.tableHeader()

	for i, row := range w.rows() {
		lines, h := w.rowLayout(row)
		if d.EnsureSpace(h) {
			w.tableHeader()
		}
		y := d.Y()
		textY := y + rowPaddingV

		d.SetFont(pdf.StyleRegular, fsTable)
		d.Text(xs[0], textY, widths[0], fmt.Sprintf("%d", i+1), pdf.AlignCenter)
		d.Text(xs[2], textY, widths[2], row.quantity, pdf.AlignCenter)
		d.Text(xs[3], textY, widths[3]-cellPadding, money.FormatEUR(row.price), pdf.AlignRight)

		d.SetFont(pdf.StyleBold, fsTable)
		titleCount := len(d.WrapText(row.title, widths[1]-2*cellPadding))
		used := d.Lines(xs[1]+cellPadding, textY, widths[1]-2*cellPadding, lines[:titleCount], pdf.AlignLeft)
		if titleCount < len(lines) {
			d.SetFont(pdf.StyleRegular, fsServiceDesc)
			d.Lines(xs[1]+cellPadding, textY+used, widths[1]-2*cellPadding, lines[titleCount:], pdf.AlignLeft)
		}

		d.Line(w.left(), y+h, w.right(), y+h, 0.1)
		d.SetY(y + h)
	}
	d.Advance(5)
}

func (w *documentWriter) totals() {
	d, calc := w.doc, w.in.Calculation
	xs, _ := w.columns()

	net, tax, gross := calc.Subtotal, calc.Tax, calc.FinalPrice
	if calc.Overridden {
		// The agreed flat price is gross; derive net and VAT from it so the
		// printed totals add up.
		net = money.Round2(gross.Div(decimal.NewFromInt(1).Add(calc.TaxRate)))
		tax = gross.Sub(net)
	}

	labelX := xs[1] + d.ContentWidth()*columnShares[1]*0.5
	d.EnsureSpace(4*pdf.LineHeight(fsBody) + 4)
	w.totalLineAt(labelX, "Zwischensumme netto", money.FormatEUR(net), pdf.StyleRegular)
	w.totalLineAt(labelX, "zzgl. 19% MwSt.", money.FormatEUR(tax), pdf.StyleRegular)
	d.Line(labelX, d.Y(), w.right(), d.Y(), 0.5)
	d.Advance(1.5)
	w.totalText = "Gesamtbetrag brutto " + money.FormatEUR(gross)
	w.totalLineAt(labelX, "Gesamtbetrag brutto", money.FormatEUR(gross), pdf.StyleBold)

	if calc.Overridden {
		d.SetFont(pdf.StyleItalic, fsServiceDesc)
		d.EnsureSpace(pdf.LineHeight(fsServiceDesc))
		d.Paragraph(labelX, w.right()-labelX,
			"Pauschalpreis gemäß Vereinbarung (kalkuliert: "+money.FormatEUR(calc.Subtotal.Add(calc.Tax))+")", pdf.AlignRight)
	}
	d.Advance(6)
}

func (w *documentWriter) totalLineAt(x float64, label, value, style string) {
	d := w.doc
	lh := pdf.LineHeight(fsBody)
	d.EnsureSpace(lh)
	d.SetFont(style, fsBody)
	d.Text(x, d.Y(), w.right()-x, label, pdf.AlignLeft)
	d.Text(x, d.Y(), w.right()-x, value, pdf.AlignRight)
	d.Advance(lh + 1)
}

// section writes a bold heading followed by its paragraphs, moving the
// whole block to a new page when it would not fit.
func (w *documentWriter) section(title string, paragraphs ...string) {
	d := w.doc
	width := d.ContentWidth()

	d.SetFont(pdf.StyleRegular, fsBody)
	required := pdf.LineHeight(fsBody) + 2
	for _, p := range paragraphs {
		required += float64(len(d.WrapText(p, width-3))) * pdf.LineHeight(fsBody)
	}
	d.EnsureSpace(required)

	d.SetFont(pdf.StyleBold, fsBody)
	d.Paragraph(w.left(), width, title, pdf.AlignLeft)
	d.SetFont(pdf.StyleRegular, fsBody)
	for _, p := range paragraphs {
		d.Paragraph(w.left()+3, width-3, p, pdf.AlignLeft)
	}
	d.Advance(4)
}

func (w *documentWriter) terms() {
	issued := w.in.IssuedAt
	p := w.in.Profile

	if w.isInvoice() {
		due := issued.AddDate(0, 0, w.svc.paymentTermDays)
		w.section("Zahlungsziel:",
			fmt.Sprintf("Zahlbar innerhalb von %d Tagen bis zum %s ohne Abzug.", w.svc.paymentTermDays, formatShortDate(due)))

		instruction := "Bitte überweisen Sie den Rechnungsbetrag unter Angabe der Rechnungsnummer " + w.number
		if p.IBAN != "" {
			instruction += " auf folgendes Konto: IBAN " + p.IBAN
			if p.BIC != "" {
				instruction += ", BIC " + p.BIC
			}
			if p.BankName != "" {
				instruction += " (" + p.BankName + ")"
			}
		}
		w.section("Zahlungsinformationen:", instruction+".")
		return
	}

	w.section("Leistungsumfang:",
		"• Ausführung durch qualifiziertes Fachpersonal",
		"• Transport in geschlossenen Umzugsfahrzeugen",
		"• Versicherungsschutz während des gesamten Umzugs",
		"• Besenreine Übergabe der Räumlichkeiten",
	)
	w.section("Zahlungsbedingungen:", "50% Anzahlung, Rest nach Fertigstellung")

	period := "nach Absprache"
	if w.in.Quote.MoveDate != nil {
		period = formatShortDate(*w.in.Quote.MoveDate)
	}
	w.section("Ausführungszeitraum:", period)

	validUntil := issued.AddDate(0, 0, w.svc.offerValidityDays)
	w.section("Angebotsgültigkeit:", fmt.Sprintf("Dieses Angebot ist gültig bis zum %s.", formatShortDate(validUntil)))
}

func (w *documentWriter) signature() {
	d, p := w.doc, w.in.Profile
	lh := pdf.LineHeight(fsBody)

	d.EnsureSpace(6*lh + 12)
	d.SetFont(pdf.StyleRegular, fsBody)
	d.Paragraph(w.left(), d.ContentWidth(), "Mit freundlichen Grüßen", pdf.AlignLeft)
	d.Advance(1)
	d.Paragraph(w.left(), d.ContentWidth(), p.LegalName, pdf.AlignLeft)
	d.Advance(12)
	d.Line(w.left(), d.Y(), w.left()+60, d.Y(), 0.2)
	d.Advance(1)
	d.Paragraph(w.left(), d.ContentWidth(), p.CEO, pdf.AlignLeft)
	d.SetFont(pdf.StyleRegular, fsServiceDesc)
	d.Paragraph(w.left(), d.ContentWidth(), "Geschäftsführer", pdf.AlignLeft)
}

func (w *documentWriter) footer(d *pdf.Document, page int) {
	p := w.in.Profile
	top := d.PageHeight() - footerReserve + 8
	colWidth := d.ContentWidth() / 3

	d.Line(w.left(), top-2, w.right(), top-2, 0.1)
	d.SetFont(pdf.StyleRegular, fsFooter)

	company := []string{p.LegalName, "Geschäftsführer: " + p.CEO}
	var bank []string
	if p.BankName != "" {
		bank = append(bank, p.BankName)
	}
	if p.IBAN != "" {
		bank = append(bank, "IBAN: "+p.IBAN)
	}
	if p.BIC != "" {
		bank = append(bank, "BIC: "+p.BIC)
	}
	legal := []string{p.Court + " " + p.HRB}
	if p.VATID != "" {
		legal = append(legal, "USt-IdNr.: "+p.VATID)
	}
	if p.TaxNumber != "" {
		legal = append(legal, "Steuernr.: "+p.TaxNumber)
	}

	d.Lines(w.left(), top, colWidth, company, pdf.AlignLeft)
	d.Lines(w.left()+colWidth, top, colWidth, bank, pdf.AlignCenter)
	d.Lines(w.left()+2*colWidth, top, colWidth, legal, pdf.AlignRight)

	d.Text(w.left(), d.PageHeight()-pageMargin+4, d.ContentWidth(),
		fmt.Sprintf("Seite %d/%s", page, pdf.TotalPagesAlias), pdf.AlignCenter)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/apperror"
	"github.com/xuri/excelize/v2"
)

// QuoteSheetName is the worksheet holding exported quotes.
const QuoteSheetName = "Angebote"

var quoteExportHeaders = []string{
	"Angebot", "Version", "Kunde", "Firma", "Status", "Preis (EUR)", "Volumen (m³)",
	"Entfernung (km)", "Umzugsdatum", "Von", "Nach", "Erstellt", "Gesendet", "Bestätigt",
}

// ExportService writes quote listings as spreadsheets.
type ExportService struct {
	quotes    *QuoteService
	companies *CompanyService
}

// NewExportService creates a new export service
func NewExportService(quotes *QuoteService, companies *CompanyService) *ExportService {
	return &ExportService{quotes: quotes, companies: companies}
}

// ExportQuotes returns an XLSX workbook with every quote matching input.
func (s *ExportService) ExportQuotes(ctx context.Context, input *QuoteListInput) ([]byte, error) {
	quotes, err := s.quotes.AllQuotes(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.workbook(quotes)
}

func (s *ExportService) workbook(quotes []entity.Quote) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", QuoteSheetName); err != nil {
		return nil, exportError(err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F3A5F"}, Pattern: 1},
	})
	if err != nil {
		return nil, exportError(err)
	}
	priceStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, exportError(err)
	}

	for i, h := range quoteExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(QuoteSheetName, cell, h); err != nil {
			return nil, exportError(err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(quoteExportHeaders))
	if err := f.SetCellStyle(QuoteSheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, exportError(err)
	}

	for i, q := range quotes {
		row := i + 2
		values := []interface{}{
			q.ID,
			q.Version,
			q.CustomerName,
			s.companies.Profile(q.Company).Name,
			q.Status.String(),
			q.Price.InexactFloat64(),
			q.Volume,
			q.Distance,
			optionalDate(q.MoveDate),
			optionalString(q.MoveFrom),
			optionalString(q.MoveTo),
			formatShortDate(q.CreatedAt),
			optionalDate(q.SentAt),
			optionalDate(q.ConfirmedAt),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(QuoteSheetName, cell, &values); err != nil {
			return nil, exportError(err)
		}
	}
	if len(quotes) > 0 {
		if err := f.SetCellStyle(QuoteSheetName, "F2", fmt.Sprintf("F%d", len(quotes)+1), priceStyle); err != nil {
			return nil, exportError(err)
		}
	}

	_ = f.SetColWidth(QuoteSheetName, "A", "A", 38)
	_ = f.SetColWidth(QuoteSheetName, "B", lastCol, 16)
	_ = f.SetColWidth(QuoteSheetName, "J", "K", 34)
	_ = f.SetPanes(QuoteSheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	if err := f.AutoFilter(QuoteSheetName, "A1:"+lastCol+"1", nil); err != nil {
		return nil, exportError(err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, exportError(err)
	}
	return buf.Bytes(), nil
}

func exportError(err error) error {
	return apperror.NewRenderError("Failed to build export", err)
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatShortDate(*t)
}

package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/logger"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/apperror"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/money"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/pagination"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteService manages the quote record lifecycle.
type QuoteService struct {
	quoteRepo    repository.QuoteRepository
	customerRepo repository.CustomerRepository
	pricing      *PricingService
	companies    *CompanyService
	log          *zap.Logger
	now          func() time.Time
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	customerRepo repository.CustomerRepository,
	pricing *PricingService,
	companies *CompanyService,
	log *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:    quoteRepo,
		customerRepo: customerRepo,
		pricing:      pricing,
		companies:    companies,
		log:          log,
		now:          time.Now,
	}
}

// CreateQuoteInput is a new quote. Price is computed from Details when
// omitted; Details falls back to Volume and Distance.
type CreateQuoteInput struct {
	ID           string               `json:"id" validate:"omitempty,max=64"`
	CustomerID   string               `json:"customer_id" validate:"required"`
	CustomerName string               `json:"customer_name" validate:"max=255"`
	Company      string               `json:"company"`
	Status       string               `json:"status"`
	Price        *decimal.Decimal     `json:"price"`
	Volume       float64              `json:"volume" validate:"gte=0"`
	Distance     float64              `json:"distance" validate:"gte=0"`
	MoveDate     *time.Time           `json:"move_date"`
	MoveFrom     *string              `json:"move_from"`
	MoveTo       *string              `json:"move_to"`
	Comment      *string              `json:"comment"`
	Details      *entity.QuoteDetails `json:"details"`
	CreatedBy    string               `json:"created_by" validate:"max=255"`
	LegacyID     *string              `json:"legacy_id" validate:"omitempty,max=128"`
}

// UpdateQuoteInput changes only the non-nil fields.
type UpdateQuoteInput struct {
	CustomerName *string              `json:"customer_name" validate:"omitempty,min=1,max=255"`
	Company      *string              `json:"company"`
	Status       *string              `json:"status"`
	Price        *decimal.Decimal     `json:"price"`
	Volume       *float64             `json:"volume" validate:"omitempty,gte=0"`
	Distance     *float64             `json:"distance" validate:"omitempty,gte=0"`
	MoveDate     *time.Time           `json:"move_date"`
	MoveFrom     *string              `json:"move_from"`
	MoveTo       *string              `json:"move_to"`
	Comment      *string              `json:"comment"`
	Details      *entity.QuoteDetails `json:"details"`
}

// QuoteListInput filters quote listings. Customer accepts any customer
// identifier.
type QuoteListInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Customer   string
	Status     string
	Company    string
}

func validatePrice(field string, price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return apperror.NewValidationError([]apperror.FieldError{{Field: field, Message: "Must not be negative"}})
	}
	return nil
}

func validateDetails(details *entity.QuoteDetails) error {
	if details == nil {
		return nil
	}
	if details.Volume < 0 || details.Distance < 0 {
		return apperror.NewValidationError([]apperror.FieldError{{Field: "details", Message: "Volume and distance must not be negative"}})
	}
	if details.ManualTotal != nil && details.ManualTotal.IsNegative() {
		return apperror.NewValidationError([]apperror.FieldError{{Field: "details.manual_total", Message: "Manual total must not be negative"}})
	}
	if details.ManualBasePrice != nil && details.ManualBasePrice.IsNegative() {
		return apperror.NewValidationError([]apperror.FieldError{{Field: "details.manual_base_price", Message: "Manual base price must not be negative"}})
	}
	for _, sel := range details.Services {
		if !sel.Kind.IsValid() {
			return apperror.NewValidationError([]apperror.FieldError{{Field: "details.services", Message: "Unknown service: " + string(sel.Kind)}})
		}
	}
	return nil
}

// coerceStatus maps unknown statuses to draft, logging a warning rather
// than rejecting the write.
func (s *QuoteService) coerceStatus(ctx context.Context, raw string) enum.QuoteStatus {
	if raw == "" {
		return enum.QuoteStatusDraft
	}
	status, ok := enum.ParseQuoteStatus(raw)
	if !ok {
		logger.FromContext(ctx, s.log).Warn("invalid quote status, using draft",
			zap.String("status", raw))
		return enum.QuoteStatusDraft
	}
	return status
}

// CreateQuote validates, resolves the customer, and stores a new quote with
// a fresh confirmation token.
func (s *QuoteService) CreateQuote(ctx context.Context, input *CreateQuoteInput) (*entity.Quote, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := validatePrice("price", input.Price); err != nil {
		return nil, err
	}
	if err := validateDetails(input.Details); err != nil {
		return nil, err
	}

	customer, err := s.resolveCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	details := entity.QuoteDetails{Volume: input.Volume, Distance: input.Distance}
	if input.Details != nil {
		details = input.Details.Normalized()
		if details.Volume == 0 {
			details.Volume = input.Volume
		}
		if details.Distance == 0 {
			details.Distance = input.Distance
		}
	}

	price := money.Round2(s.pricing.CalculateQuote(customer, details).FinalPrice)
	if input.Price != nil {
		price = money.Round2(*input.Price)
	}

	token, err := utils.GenerateConfirmationToken()
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		name = customer.Name
	}
	createdBy := input.CreatedBy
	if createdBy == "" {
		createdBy = "system"
	}

	quote := &entity.Quote{
		ID:                input.ID,
		CustomerID:        customer.ID,
		CustomerName:      name,
		Company:           enum.ParseCompany(input.Company, s.companies.Default()),
		Status:            s.coerceStatus(ctx, input.Status),
		Price:             price,
		Volume:            details.Volume,
		Distance:          details.Distance,
		MoveDate:          input.MoveDate,
		MoveFrom:          input.MoveFrom,
		MoveTo:            input.MoveTo,
		Comment:           input.Comment,
		Details:           details,
		ConfirmationToken: &token,
		CreatedBy:         createdBy,
		LegacyID:          input.LegacyID,
	}
	if quote.MoveDate == nil {
		quote.MoveDate = customer.MovingDate
	}
	if quote.MoveFrom == nil && customer.FromAddress != "" {
		quote.MoveFrom = &customer.FromAddress
	}
	if quote.MoveTo == nil && customer.ToAddress != "" {
		quote.MoveTo = &customer.ToAddress
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, apperror.NewPersistenceError("create quote", err)
	}

	logger.FromContext(ctx, s.log).Info("quote created",
		zap.String("quote_id", quote.ID),
		zap.String("customer_id", customer.ID.String()),
		zap.String("price", quote.Price.StringFixed(2)))
	return quote, nil
}

func (s *QuoteService) resolveCustomer(ctx context.Context, identifier string) (*entity.Customer, error) {
	identifier = strings.TrimSpace(identifier)
	customer, err := s.customerRepo.Resolve(ctx, identifier)
	if err != nil {
		return nil, apperror.NewPersistenceError("load customer", err)
	}
	if customer == nil {
		return nil, apperror.NewCustomerNotFoundError(identifier)
	}
	return customer, nil
}

// GetQuote returns a live quote by id or legacy id.
func (s *QuoteService) GetQuote(ctx context.Context, id string) (*entity.Quote, error) {
	quote, err := s.quoteRepo.GetByIDOrLegacy(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("load quote", err)
	}
	if quote == nil {
		return nil, apperror.NewNotFoundError("Quote")
	}
	return quote, nil
}

// GetQuoteWithCustomer returns the quote and its customer. The customer
// may have been deleted since; the denormalized name is used then.
func (s *QuoteService) GetQuoteWithCustomer(ctx context.Context, id string) (*entity.Quote, *entity.Customer, error) {
	quote, err := s.GetQuote(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	customer, err := s.customerRepo.GetByID(ctx, quote.CustomerID)
	if err != nil {
		return nil, nil, apperror.NewPersistenceError("load customer", err)
	}
	if customer == nil {
		customer = &entity.Customer{ID: quote.CustomerID, Name: quote.CustomerName}
	}
	return quote, customer, nil
}

// Calculate prices a stored quote from its details.
func (s *QuoteService) Calculate(quote *entity.Quote, customer *entity.Customer) entity.QuoteCalculation {
	details := quote.Details
	if details.Volume == 0 {
		details.Volume = quote.Volume
	}
	if details.Distance == 0 {
		details.Distance = quote.Distance
	}
	calc := s.pricing.CalculateQuote(customer, details)
	if details.ManualTotal == nil && !quote.Price.Equal(calc.FinalPrice) && quote.Price.IsPositive() {
		// A price set by hand on the record wins over the recomputation.
		calc = s.pricing.ApplyOverride(calc, quote.Price)
	}
	return calc
}

// UpdateQuote writes only the provided fields. Status changes are coerced
// like on create and must follow the lifecycle.
func (s *QuoteService) UpdateQuote(ctx context.Context, id string, input *UpdateQuoteInput) (*entity.Quote, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := validatePrice("price", input.Price); err != nil {
		return nil, err
	}
	if err := validateDetails(input.Details); err != nil {
		return nil, err
	}

	quote, err := s.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if input.CustomerName != nil {
		fields["customer_name"] = strings.TrimSpace(*input.CustomerName)
	}
	if input.Company != nil {
		fields["company"] = enum.ParseCompany(*input.Company, quote.Company)
	}
	if input.Status != nil {
		next := s.coerceStatus(ctx, *input.Status)
		if next != quote.Status || next == enum.QuoteStatusSent {
			if !quote.Status.CanTransitionTo(next) {
				return nil, apperror.NewInvalidTransitionError(quote.Status.String(), next.String())
			}
			fields["status"] = next
		}
	}
	if input.Volume != nil {
		fields["volume"] = *input.Volume
	}
	if input.Distance != nil {
		fields["distance"] = *input.Distance
	}
	if input.MoveDate != nil {
		fields["move_date"] = *input.MoveDate
	}
	if input.MoveFrom != nil {
		fields["move_from"] = *input.MoveFrom
	}
	if input.MoveTo != nil {
		fields["move_to"] = *input.MoveTo
	}
	if input.Comment != nil {
		fields["comment"] = *input.Comment
	}

	if input.Details != nil {
		details := input.Details.Normalized()
		// Omitted measurements keep the stored values.
		if details.Volume == 0 {
			details.Volume = quote.Volume
			if input.Volume != nil {
				details.Volume = *input.Volume
			}
		}
		if details.Distance == 0 {
			details.Distance = quote.Distance
			if input.Distance != nil {
				details.Distance = *input.Distance
			}
		}
		raw, err := json.Marshal(details)
		if err != nil {
			return nil, apperror.NewPersistenceError("encode quote details", err)
		}
		fields["services"] = string(raw)
		if input.Price == nil {
			customer, err := s.customerRepo.GetByID(ctx, quote.CustomerID)
			if err != nil {
				return nil, apperror.NewPersistenceError("load customer", err)
			}
			fields["price"] = money.Round2(s.pricing.CalculateQuote(customer, details).FinalPrice)
		}
	}
	if input.Price != nil {
		fields["price"] = money.Round2(*input.Price)
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.now()
		if err := s.quoteRepo.Updates(ctx, quote.ID, fields); err != nil {
			return nil, apperror.NewPersistenceError("update quote", err)
		}
	}
	return s.GetQuote(ctx, quote.ID)
}

// ChangeStatus moves a quote along its lifecycle.
func (s *QuoteService) ChangeStatus(ctx context.Context, id, status string) (*entity.Quote, error) {
	return s.UpdateQuote(ctx, id, &UpdateQuoteInput{Status: &status})
}

// MarkSent records a successful dispatch. Quotes past the sent stage keep
// their status and only get the new sent_at.
func (s *QuoteService) MarkSent(ctx context.Context, quote *entity.Quote, at time.Time) error {
	fields := map[string]interface{}{"sent_at": at, "updated_at": at}
	if quote.Status.CanTransitionTo(enum.QuoteStatusSent) {
		fields["status"] = enum.QuoteStatusSent
	}
	if err := s.quoteRepo.Updates(ctx, quote.ID, fields); err != nil {
		return apperror.NewPersistenceError("mark quote sent", err)
	}
	if status, ok := fields["status"].(enum.QuoteStatus); ok {
		quote.Status = status
	}
	quote.SentAt = &at
	return nil
}

// ListQuotes returns one page of quotes. Unknown status or company
// filters are ignored.
func (s *QuoteService) ListQuotes(ctx context.Context, input *QuoteListInput) (*pagination.PaginatedResult[entity.Quote], error) {
	params := input.Pagination
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	filter, err := s.filter(ctx, input)
	if err != nil {
		return nil, err
	}
	filter.Pagination = params

	quotes, total, err := s.quoteRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.NewPersistenceError("list quotes", err)
	}
	return pagination.NewPaginatedResult(quotes, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// AllQuotes returns every quote matching the filter, ignoring pagination.
func (s *QuoteService) AllQuotes(ctx context.Context, input *QuoteListInput) ([]entity.Quote, error) {
	filter, err := s.filter(ctx, input)
	if err != nil {
		return nil, err
	}
	quotes, _, err := s.quoteRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.NewPersistenceError("list quotes", err)
	}
	return quotes, nil
}

func (s *QuoteService) filter(ctx context.Context, input *QuoteListInput) (*repository.QuoteFilterParams, error) {
	filter := &repository.QuoteFilterParams{Search: input.Search}
	if input.Customer != "" {
		customer, err := s.resolveCustomer(ctx, input.Customer)
		if err != nil {
			return nil, err
		}
		filter.CustomerID = &customer.ID
	}
	if status, ok := enum.ParseQuoteStatus(input.Status); ok {
		filter.Status = &status
	}
	if company := enum.Company(strings.ToLower(input.Company)); company.IsValid() {
		filter.Company = &company
	}
	return filter, nil
}

// DeleteQuote soft-deletes a quote.
func (s *QuoteService) DeleteQuote(ctx context.Context, id string) error {
	quote, err := s.GetQuote(ctx, id)
	if err != nil {
		return err
	}
	if err := s.quoteRepo.SoftDelete(ctx, quote.ID); err != nil {
		return apperror.NewPersistenceError("delete quote", err)
	}
	return nil
}

// CreateVersion copies a quote into a new draft one version higher so it
// can be re-quoted without touching the original.
func (s *QuoteService) CreateVersion(ctx context.Context, id, createdBy string) (*entity.Quote, error) {
	original, err := s.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateConfirmationToken()
	if err != nil {
		return nil, err
	}
	if createdBy == "" {
		createdBy = original.CreatedBy
	}

	parentID := original.ID
	version := &entity.Quote{
		CustomerID:        original.CustomerID,
		CustomerName:      original.CustomerName,
		Company:           original.Company,
		Status:            enum.QuoteStatusDraft,
		Price:             original.Price,
		Volume:            original.Volume,
		Distance:          original.Distance,
		MoveDate:          original.MoveDate,
		MoveFrom:          original.MoveFrom,
		MoveTo:            original.MoveTo,
		Comment:           original.Comment,
		Details:           original.Details,
		ConfirmationToken: &token,
		CreatedBy:         createdBy,
		Version:           original.Version + 1,
		ParentQuoteID:     &parentID,
	}
	if err := s.quoteRepo.Create(ctx, version); err != nil {
		return nil, apperror.NewPersistenceError("create quote version", err)
	}
	return version, nil
}

// GetByToken returns the quote behind a public confirmation link.
func (s *QuoteService) GetByToken(ctx context.Context, token string) (*entity.Quote, error) {
	quote, err := s.quoteRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, apperror.NewPersistenceError("load quote", err)
	}
	if quote == nil {
		return nil, apperror.NewNotFoundError("Quote")
	}
	return quote, nil
}

// RespondByToken records the customer's answer to a sent quote: accept
// confirms it, reject closes it.
func (s *QuoteService) RespondByToken(ctx context.Context, token string, accept bool, by string) (*entity.Quote, error) {
	quote, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	next := enum.QuoteStatusRejected
	if accept {
		next = enum.QuoteStatusConfirmed
	}
	if quote.Status != enum.QuoteStatusSent {
		return nil, apperror.NewInvalidTransitionError(quote.Status.String(), next.String())
	}

	by = strings.TrimSpace(by)
	if by == "" {
		by = quote.CustomerName
	}
	now := s.now()
	fields := map[string]interface{}{
		"status":       next,
		"confirmed_at": now,
		"confirmed_by": by,
		"updated_at":   now,
	}
	if err := s.quoteRepo.Updates(ctx, quote.ID, fields); err != nil {
		return nil, apperror.NewPersistenceError("record quote response", err)
	}

	logger.FromContext(ctx, s.log).Info("quote answered by customer",
		zap.String("quote_id", quote.ID),
		zap.String("status", next.String()))
	return s.GetQuote(ctx, quote.ID)
}

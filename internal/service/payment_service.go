package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/models"
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
)

type paymentRepository interface {
	List(ctx context.Context) ([]models.Payment, error)
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id string) error
}

// PaymentRequest holds payload for creating or updating payment records.
type PaymentRequest struct {
	StudentID   string  `json:"student_id" validate:"required"`
	AmountDue   float64 `json:"amount_due" validate:"gte=0"`
	AmountPaid  float64 `json:"amount_paid" validate:"gte=0"`
	Status      string  `json:"status" validate:"required"`
	Date        string  `json:"date" validate:"required"`
	Description *string `json:"description,omitempty"`
}

// PaymentService manages tuition payment records.
type PaymentService struct {
	repo      paymentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs the payment service.
func NewPaymentService(repo paymentRepository, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, validator: validate, logger: logger}
}

// List returns all payment records in insertion order.
func (s *PaymentService) List(ctx context.Context) ([]models.Payment, error) {
	payments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

// Create records a new payment.
func (s *PaymentService) Create(ctx context.Context, req PaymentRequest) (*models.Payment, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	payment := &models.Payment{
		StudentID:   req.StudentID,
		AmountDue:   req.AmountDue,
		AmountPaid:  req.AmountPaid,
		Status:      models.PaymentStatus(req.Status),
		Date:        date,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}
	return payment, nil
}

// Update modifies an existing payment record.
func (s *PaymentService) Update(ctx context.Context, id string, req PaymentRequest) (*models.Payment, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	payment.StudentID = req.StudentID
	payment.AmountDue = req.AmountDue
	payment.AmountPaid = req.AmountPaid
	payment.Status = models.PaymentStatus(req.Status)
	payment.Date = date
	payment.Description = req.Description
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment")
	}
	return payment, nil
}

// Delete removes a payment record.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete payment")
	}
	return nil
}

func (s *PaymentService) validateRequest(req PaymentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if !models.PaymentStatus(req.Status).Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "status must be payé or en retard")
	}
	return nil
}

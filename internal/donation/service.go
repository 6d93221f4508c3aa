// Package donation implements the donation lifecycle: creating donations
// (materialising a new recipient when asked to) and attaching usage reports.
package donation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/rs/zerolog"

	"donortrack/internal/domain"
	"donortrack/internal/infra"
)

// Repository is the storage the service reads and writes.
type Repository interface {
	domain.UserRepository
	domain.DonationRepository
}

// CreateDonationInput carries a donation request. Exactly one of RecipientID
// and NewRecipientName must be set.
type CreateDonationInput struct {
	DonorID          string  `json:"donor_id" validate:"required"`
	RecipientID      string  `json:"recipient_id"`
	NewRecipientName string  `json:"new_recipient_name"`
	Amount           float64 `json:"amount" validate:"gt=0"`
	Purpose          string  `json:"purpose" validate:"required"`
}

func (in CreateDonationInput) normalized() CreateDonationInput {
	in.DonorID = strings.TrimSpace(in.DonorID)
	in.RecipientID = strings.TrimSpace(in.RecipientID)
	in.NewRecipientName = strings.TrimSpace(in.NewRecipientName)
	in.Purpose = strings.TrimSpace(in.Purpose)
	return in
}

// Service coordinates the entity store for donation operations.
type Service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
	logger   infra.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the clock used to date new donations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger infra.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a lifecycle service over repo.
func NewService(repo Repository, opts ...Option) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	s := &Service{
		repo:     repo,
		validate: v,
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateDonation validates input, resolves (or creates) the recipient and
// stores a new Pending donation dated today. Nothing is written when
// validation fails or the clock yields no usable date.
func (s *Service) CreateDonation(ctx context.Context, input CreateDonationInput) (*domain.Donation, error) {
	in := input.normalized()
	if err := s.validate.Struct(in); err != nil {
		return nil, toValidationError(err)
	}
	if math.IsInf(in.Amount, 0) {
		return nil, &domain.ValidationError{Field: "amount", Reason: "must be a finite number"}
	}
	switch {
	case in.RecipientID == "" && in.NewRecipientName == "":
		return nil, &domain.ValidationError{Field: "recipient_id", Reason: "recipient_id or new_recipient_name is required"}
	case in.RecipientID != "" && in.NewRecipientName != "":
		return nil, &domain.ValidationError{Field: "recipient_id", Reason: "cannot be combined with new_recipient_name"}
	}

	now := s.now()
	if now.IsZero() {
		return nil, errors.New("donation clock returned the zero time")
	}
	date := domain.DateOf(now)

	donor, err := s.resolveUser(ctx, in.DonorID, domain.UserRoleDonor, "donor_id")
	if err != nil {
		return nil, err
	}

	var recipient *domain.User
	if in.RecipientID != "" {
		recipient, err = s.resolveUser(ctx, in.RecipientID, domain.UserRoleRecipient, "recipient_id")
		if err != nil {
			return nil, err
		}
	} else {
		recipient, err = s.repo.CreateUser(ctx, domain.UserRoleRecipient, in.NewRecipientName)
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				return nil, &domain.ValidationError{Field: "new_recipient_name", Reason: verr.Reason}
			}
			return nil, fmt.Errorf("create recipient: %w", err)
		}
		s.logger.Info().Str("recipient_id", recipient.ID).Msg("recipient created")
	}

	created, err := s.repo.InsertDonation(ctx, domain.Donation{
		DonorID:       donor.ID,
		DonorName:     donor.Name,
		RecipientID:   recipient.ID,
		RecipientName: recipient.Name,
		Amount:        in.Amount,
		Date:          date,
		Purpose:       in.Purpose,
		Status:        domain.DonationStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("insert donation: %w", err)
	}
	s.logger.Info().
		Str("donation_id", created.ID).
		Str("donor_id", created.DonorID).
		Str("recipient_id", created.RecipientID).
		Float64("amount", created.Amount).
		Msg("donation created")
	return created, nil
}

// SubmitUsageReport marks a donation Reported with the given details,
// overwriting any earlier report. The text is used exactly as supplied.
func (s *Service) SubmitUsageReport(ctx context.Context, donationID, usageDetails string) (*domain.Donation, error) {
	bounds := fmt.Sprintf("min=%d,max=%d", domain.UsageDetailsMinLength, domain.UsageDetailsMaxLength)
	if err := s.validate.Var(usageDetails, bounds); err != nil {
		return nil, &domain.ValidationError{
			Field:  "usage_details",
			Reason: fmt.Sprintf("must be between %d and %d characters", domain.UsageDetailsMinLength, domain.UsageDetailsMaxLength),
		}
	}

	var previous domain.DonationStatus
	updated, err := s.repo.UpdateDonation(ctx, donationID, func(d *domain.Donation) error {
		previous = d.Status
		d.Status = domain.DonationStatusReported
		d.UsageDetails = usageDetails
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("donation_id", updated.ID).
		Bool("overwrite", previous == domain.DonationStatusReported).
		Msg("usage report submitted")
	return updated, nil
}

// DonationByID returns a single donation.
func (s *Service) DonationByID(ctx context.Context, id string) (*domain.Donation, error) {
	return s.repo.GetDonation(ctx, id)
}

// DonationsForDonor lists the donor's donations, newest first.
func (s *Service) DonationsForDonor(ctx context.Context, donorID string) ([]domain.Donation, error) {
	return s.repo.ListDonations(ctx, func(d domain.Donation) bool { return d.DonorID == donorID })
}

// DonationsForRecipient lists the recipient's donations, newest first.
func (s *Service) DonationsForRecipient(ctx context.Context, recipientID string) ([]domain.Donation, error) {
	return s.repo.ListDonations(ctx, func(d domain.Donation) bool { return d.RecipientID == recipientID })
}

// AllRecipients lists recipients in creation order.
func (s *Service) AllRecipients(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsersByRole(ctx, domain.UserRoleRecipient)
}

// AllDonors lists donors in creation order.
func (s *Service) AllDonors(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsersByRole(ctx, domain.UserRoleDonor)
}

// User returns a user of the given role.
func (s *Service) User(ctx context.Context, id string, role domain.UserRole) (*domain.User, error) {
	if domain.RoleOf(id) != role {
		return nil, &domain.NotFoundError{Entity: string(role), ID: id}
	}
	u, err := s.repo.GetUser(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.NotFoundError{Entity: string(role), ID: id}
	}
	return u, err
}

func (s *Service) resolveUser(ctx context.Context, id string, role domain.UserRole, field string) (*domain.User, error) {
	if domain.RoleOf(id) != role {
		return nil, &domain.ValidationError{Field: field, Reason: fmt.Sprintf("must reference a %s", role)}
	}
	u, err := s.repo.GetUser(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.ValidationError{Field: field, Reason: fmt.Sprintf("unknown %s %q", role, id)}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", role, err)
	}
	return u, nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	reason := "is invalid"
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "gt":
		reason = "must be greater than " + fe.Param()
	}
	return &domain.ValidationError{Field: fe.Field(), Reason: reason}
}

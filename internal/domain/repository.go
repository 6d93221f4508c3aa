package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	ListUsersByRole(ctx context.Context, role UserRole) ([]User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, role UserRole, name string) (*User, error)
}

// DonationFilter selects donations in a listing. A nil filter matches all.
type DonationFilter func(Donation) bool

// DonationMutator edits a donation in place during an update. Returning an
// error aborts the update.
type DonationMutator func(*Donation) error

// DonationRepository handles donation persistence.
type DonationRepository interface {
	ListDonations(ctx context.Context, filter DonationFilter) ([]Donation, error)
	GetDonation(ctx context.Context, id string) (*Donation, error)
	InsertDonation(ctx context.Context, donation Donation) (*Donation, error)
	UpdateDonation(ctx context.Context, id string, mutate DonationMutator) (*Donation, error)
}

package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"donortrack/internal/domain"
)

const donationIDPrefix = "donation-"

var errImmutableField = errors.New("immutable donation field changed")

// ListDonations returns donations matching filter, newest date first. Among
// donations on the same date the most recently inserted comes first.
func (s *Store) ListDonations(ctx context.Context, filter domain.DonationFilter) ([]domain.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Donation, 0, len(s.donations))
	for _, rec := range s.donations {
		if filter == nil || filter(rec.donation) {
			items = append(items, rec.donation)
		}
	}
	return items, nil
}

// GetDonation fetches a donation by ID.
func (s *Store) GetDonation(ctx context.Context, id string) (*domain.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.donationIndex(id)
	if idx < 0 {
		return nil, &domain.NotFoundError{Entity: "donation", ID: id}
	}
	d := s.donations[idx].donation
	return &d, nil
}

// InsertDonation appends a donation and re-sorts the collection. An empty ID
// is replaced with the next unused "donation-<n>" identifier.
func (s *Store) InsertDonation(ctx context.Context, donation domain.Donation) (*domain.Donation, error) {
	donation.Date = domain.DateOf(donation.Date)
	if err := donation.CheckInvariants(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if donation.ID == "" {
		donation.ID = donationIDPrefix + strconv.Itoa(s.lastDonationID+1)
	}
	if s.donationIndex(donation.ID) >= 0 {
		return nil, fmt.Errorf("%w: donation %s", domain.ErrDuplicateID, donation.ID)
	}
	if n, ok := idSuffix(donation.ID, donationIDPrefix); ok && n > s.lastDonationID {
		s.lastDonationID = n
	}

	s.seq++
	s.donations = append(s.donations, donationRecord{donation: donation, seq: s.seq})
	s.sortDonations()
	return &donation, nil
}

// UpdateDonation applies mutate to a copy of the stored donation and commits
// it when the mutator succeeds and the result still satisfies the donation
// invariants. The mutator runs under the write lock, so concurrent updates
// are serialised and the last one wins.
func (s *Store) UpdateDonation(ctx context.Context, id string, mutate domain.DonationMutator) (*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.donationIndex(id)
	if idx < 0 {
		return nil, &domain.NotFoundError{Entity: "donation", ID: id}
	}
	current := s.donations[idx].donation
	updated := current
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	if immutableKey(updated) != immutableKey(current) {
		return nil, fmt.Errorf("repo: update %s: %w", id, errImmutableField)
	}
	if err := updated.CheckInvariants(); err != nil {
		return nil, err
	}
	s.donations[idx].donation = updated
	return &updated, nil
}

func (s *Store) donationIndex(id string) int {
	for i, rec := range s.donations {
		if rec.donation.ID == id {
			return i
		}
	}
	return -1
}

type donationKey struct {
	id, donorID, donorName, recipientID, recipientName, purpose string
	amount                                                      float64
	date                                                        int64
}

func immutableKey(d domain.Donation) donationKey {
	return donationKey{
		id:            d.ID,
		donorID:       d.DonorID,
		donorName:     d.DonorName,
		recipientID:   d.RecipientID,
		recipientName: d.RecipientName,
		purpose:       d.Purpose,
		amount:        d.Amount,
		date:          d.Date.Unix(),
	}
}

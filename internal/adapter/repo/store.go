// Package repo holds the in-memory entity store. The store exclusively owns
// every User and Donation record; callers only ever receive copies.
package repo

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"donortrack/internal/domain"
)

// Store implements domain.UserRepository and domain.DonationRepository on
// process memory. Create one per process (or per test); there is no shared
// default instance.
type Store struct {
	mu sync.RWMutex

	users     []domain.User
	userIndex map[string]int

	// donations stay sorted by date descending, newest insertion first on ties.
	donations      []donationRecord
	seq            uint64
	lastDonationID int
}

type donationRecord struct {
	donation domain.Donation
	seq      uint64
}

var (
	_ domain.UserRepository     = (*Store)(nil)
	_ domain.DonationRepository = (*Store)(nil)
)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{userIndex: make(map[string]int)}
}

func (s *Store) sortDonations() {
	sort.SliceStable(s.donations, func(i, j int) bool {
		a, b := s.donations[i], s.donations[j]
		if !a.donation.Date.Equal(b.donation.Date) {
			return a.donation.Date.After(b.donation.Date)
		}
		return a.seq > b.seq
	})
}

// idSuffix parses the integer after prefix in id, e.g. 3 for "recipient-3".
func idSuffix(id, prefix string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

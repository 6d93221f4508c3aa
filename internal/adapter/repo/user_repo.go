package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"donortrack/internal/domain"
)

const (
	placeholderEmailDomain = "example.com"
	placeholderAvatarURL   = "https://placehold.co/100x100/cccccc/424242.png"
)

// ListUsersByRole returns the users of role in insertion order.
func (s *Store) ListUsersByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if u.HasRole(role) {
			items = append(items, u)
		}
	}
	return items, nil
}

// GetUser fetches a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.userIndex[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "user", ID: id}
	}
	u := s.users[idx]
	return &u, nil
}

// CreateUser materialises a new user in the role namespace. The ID takes the
// next integer not yet used for the role prefix; email and avatar are
// placeholders derived from the name.
func (s *Store) CreateUser(ctx context.Context, role domain.UserRole, name string) (*domain.User, error) {
	if !role.Valid() {
		return nil, &domain.ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", role)}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := role.IDPrefix()
	next := 1
	for _, u := range s.users {
		if n, ok := idSuffix(u.ID, prefix); ok && n >= next {
			next = n + 1
		}
	}
	user := domain.User{
		ID:        prefix + strconv.Itoa(next),
		Name:      name,
		Email:     placeholderEmail(name),
		AvatarURL: placeholderAvatarURL,
	}
	s.appendUser(user)
	return &user, nil
}

// InsertUser stores a fully specified user, typically from seed data.
func (s *Store) InsertUser(ctx context.Context, user domain.User) error {
	if user.Role() == "" {
		return &domain.ValidationError{Field: "id", Reason: fmt.Sprintf("%q has no known role prefix", user.ID)}
	}
	if strings.TrimSpace(user.Name) == "" {
		return &domain.ValidationError{Field: "name", Reason: "is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.userIndex[user.ID]; exists {
		return fmt.Errorf("%w: user %s", domain.ErrDuplicateID, user.ID)
	}
	s.appendUser(user)
	return nil
}

func (s *Store) appendUser(user domain.User) {
	s.userIndex[user.ID] = len(s.users)
	s.users = append(s.users, user)
}

func placeholderEmail(name string) string {
	local := strings.ToLower(strings.Join(strings.Fields(name), "."))
	return local + "@" + placeholderEmailDomain
}

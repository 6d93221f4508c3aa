// Package seed loads demo users and donations into the entity store.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"donortrack/internal/domain"
)

//go:embed demo.yaml
var demoYAML []byte

const dateLayout = "2006-01-02"

// Store is the subset of the entity store the loader writes to.
type Store interface {
	InsertUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	InsertDonation(ctx context.Context, donation domain.Donation) (*domain.Donation, error)
}

// File mirrors the YAML layout of a seed file.
type File struct {
	Users     []UserRecord     `yaml:"users"`
	Donations []DonationRecord `yaml:"donations"`
}

type UserRecord struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	AvatarURL string `yaml:"avatar_url"`
}

// DonationRecord references users by id; donor and recipient names are
// copied from the loaded users.
type DonationRecord struct {
	ID           string  `yaml:"id"`
	DonorID      string  `yaml:"donor_id"`
	RecipientID  string  `yaml:"recipient_id"`
	Amount       float64 `yaml:"amount"`
	Date         string  `yaml:"date"`
	Purpose      string  `yaml:"purpose"`
	Status       string  `yaml:"status"`
	UsageDetails string  `yaml:"usage_details"`
}

// Result counts what a load inserted.
type Result struct {
	Users     int
	Donations int
}

// Demo returns the embedded demo data set.
func Demo() (*File, error) {
	return Parse(bytes.NewReader(demoYAML))
}

// Parse decodes a seed file, rejecting unknown keys.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	return &f, nil
}

// Load reads the seed file at path, or the embedded demo data when path is
// empty, and inserts it into store.
func Load(ctx context.Context, store Store, path string) (Result, error) {
	var (
		f   *File
		err error
	)
	if strings.TrimSpace(path) == "" {
		f, err = Demo()
	} else {
		f, err = parseFile(path)
	}
	if err != nil {
		return Result{}, err
	}
	return Apply(ctx, store, f)
}

func parseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: open %s: %w", path, err)
	}
	defer func() {
		_ = fh.Close()
	}()
	return Parse(fh)
}

// Apply inserts users first, then donations in file order.
func Apply(ctx context.Context, store Store, f *File) (Result, error) {
	var res Result
	for _, rec := range f.Users {
		user := domain.User{
			ID:        strings.TrimSpace(rec.ID),
			Name:      strings.TrimSpace(rec.Name),
			Email:     strings.TrimSpace(rec.Email),
			AvatarURL: strings.TrimSpace(rec.AvatarURL),
		}
		if err := store.InsertUser(ctx, user); err != nil {
			return res, fmt.Errorf("seed: user %s: %w", rec.ID, err)
		}
		res.Users++
	}
	for _, rec := range f.Donations {
		donation, err := toDonation(ctx, store, rec)
		if err != nil {
			return res, fmt.Errorf("seed: donation %s: %w", rec.ID, err)
		}
		if _, err := store.InsertDonation(ctx, donation); err != nil {
			return res, fmt.Errorf("seed: donation %s: %w", rec.ID, err)
		}
		res.Donations++
	}
	return res, nil
}

func toDonation(ctx context.Context, store Store, rec DonationRecord) (domain.Donation, error) {
	donor, err := userWithRole(ctx, store, rec.DonorID, domain.UserRoleDonor)
	if err != nil {
		return domain.Donation{}, err
	}
	recipient, err := userWithRole(ctx, store, rec.RecipientID, domain.UserRoleRecipient)
	if err != nil {
		return domain.Donation{}, err
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(rec.Date))
	if err != nil {
		return domain.Donation{}, &domain.ValidationError{Field: "date", Reason: fmt.Sprintf("want YYYY-MM-DD, got %q", rec.Date)}
	}
	status := domain.DonationStatus(strings.TrimSpace(rec.Status))
	if status == "" {
		status = domain.DonationStatusPending
		if rec.UsageDetails != "" {
			status = domain.DonationStatusReported
		}
	}
	return domain.Donation{
		ID:            strings.TrimSpace(rec.ID),
		DonorID:       donor.ID,
		DonorName:     donor.Name,
		RecipientID:   recipient.ID,
		RecipientName: recipient.Name,
		Amount:        rec.Amount,
		Date:          date,
		Purpose:       rec.Purpose,
		Status:        status,
		UsageDetails:  rec.UsageDetails,
	}, nil
}

func userWithRole(ctx context.Context, store Store, id string, role domain.UserRole) (*domain.User, error) {
	user, err := store.GetUser(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !user.HasRole(role) {
		return nil, &domain.ValidationError{Field: string(role) + "_id", Reason: fmt.Sprintf("%s is not a %s", id, role)}
	}
	return user, nil
}

// Package house implements house creation by join code, joining, and leaving.
package house

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/willowmere/hearth/internal/code"
	"github.com/willowmere/hearth/internal/model"
	"github.com/willowmere/hearth/internal/store"
)

var (
	// ErrInvalidCode is returned when a join code is not 6 alphanumerics.
	ErrInvalidCode = errors.New("house code must be exactly 6 alphanumeric characters")
	// ErrNotFound is returned when no house holds the given code.
	ErrNotFound = errors.New("house not found")
)

// maxCreateAttempts bounds the code-collision retry loop. With a 36^6
// keyspace a second collision is already vanishingly unlikely; hitting the
// cap means the keyspace is effectively exhausted and the create should fail
// rather than spin.
const maxCreateAttempts = 10

// Registry performs house membership operations against the store.
type Registry struct {
	houses *store.HouseStore

	// generate is swappable for tests; defaults to code.Generate.
	generate func() string
}

func NewRegistry(houses *store.HouseStore) *Registry {
	return &Registry{houses: houses, generate: code.Generate}
}

// Create makes a new house named name with ownerID as its sole member and
// returns it. The house ID is a fresh join code; a code already held by
// another house is discarded and a new one drawn. Allocation is a single
// conditional insert, so concurrent creators can never both claim one code.
func (r *Registry) Create(ctx context.Context, name, ownerID string) (*model.House, error) {
	var h *model.House

	b := retry.WithMaxRetries(maxCreateAttempts-1, retry.NewConstant(time.Millisecond))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		candidate := r.generate()
		created, err := r.houses.CreateIfAbsent(candidate, name, ownerID)
		if errors.Is(err, store.ErrExists) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		h = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create house: %w", err)
	}
	return h, nil
}

// Join adds userID to the house with the given code. The code is normalized
// before lookup; joining a house the user already belongs to is a no-op.
func (r *Registry) Join(ctx context.Context, joinCode, userID string) (*model.House, error) {
	if !code.Valid(joinCode) {
		return nil, ErrInvalidCode
	}
	id := code.Normalize(joinCode)

	h, err := r.houses.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("join house: %w", err)
	}
	if h == nil {
		return nil, ErrNotFound
	}

	if err := r.houses.AddMember(id, userID); err != nil {
		return nil, fmt.Errorf("join house: %w", err)
	}
	return r.houses.GetByID(id)
}

// Leave removes userID from the house. Leaving a house the user is not a
// member of is a no-op.
func (r *Registry) Leave(ctx context.Context, houseID, userID string) error {
	if err := r.houses.RemoveMember(houseID, userID); err != nil {
		return fmt.Errorf("leave house: %w", err)
	}
	return nil
}

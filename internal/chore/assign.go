package chore

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

// ErrNoMembers is returned when assignment is requested for a house with no
// members to draw from.
var ErrNoMembers = errors.New("house has no members")

// AutoAssign assigns every unassigned chore in the house to a member picked
// uniformly at random. Each chore draws independently, so an uneven spread is
// normal and two chores may land on the same member. Chores that already have
// an assignee are left untouched. Updates run concurrently and are not
// transactional; a failure on one chore leaves the assignments already
// written in place.
func (s *Service) AutoAssign(ctx context.Context, houseID string, memberIDs []string) ([]Assignment, error) {
	if len(memberIDs) == 0 {
		return nil, ErrNoMembers
	}

	chores, err := s.chores.ListByHouse(houseID)
	if err != nil {
		return nil, fmt.Errorf("auto assign: %w", err)
	}

	var assignments []Assignment
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range chores {
		if c.AssignedTo != nil {
			continue
		}
		member := memberIDs[rand.IntN(len(memberIDs))]
		assignments = append(assignments, Assignment{ChoreID: c.ID, AssignedTo: member})
		choreID := c.ID
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := s.chores.UpdateAssignee(houseID, choreID, &member); err != nil {
				return fmt.Errorf("assign chore %s: %w", choreID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assignments, nil
}

// UnassignAll clears the assignee on every chore in the house.
func (s *Service) UnassignAll(ctx context.Context, houseID string) error {
	chores, err := s.chores.ListByHouse(houseID)
	if err != nil {
		return fmt.Errorf("unassign all: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range chores {
		if c.AssignedTo == nil {
			continue
		}
		choreID := c.ID
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := s.chores.UpdateAssignee(houseID, choreID, nil); err != nil {
				return fmt.Errorf("unassign chore %s: %w", choreID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Assign sets a single chore's assignee, or clears it when userID is nil.
func (s *Service) Assign(ctx context.Context, houseID, choreID string, userID *string) error {
	existing, err := s.chores.GetByID(houseID, choreID)
	if err != nil {
		return fmt.Errorf("assign chore: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if err := s.chores.UpdateAssignee(houseID, choreID, userID); err != nil {
		return fmt.Errorf("assign chore: %w", err)
	}
	return nil
}

// Assignment pairs a chore with the member it was assigned to.
type Assignment struct {
	ChoreID    string `json:"chore_id"`
	AssignedTo string `json:"assigned_to"`
}

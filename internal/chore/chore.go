// Package chore implements chore creation, editing, and assignment for a house.
package chore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/willowmere/hearth/internal/model"
	"github.com/willowmere/hearth/internal/schedule"
	"github.com/willowmere/hearth/internal/store"
)

var (
	// ErrEmptyTitle is returned when a chore title is empty after trimming.
	ErrEmptyTitle = errors.New("chore title is required")
	// ErrNotFound is returned when the chore does not exist in the house.
	ErrNotFound = errors.New("chore not found")
)

// Service owns chore CRUD and assignment for houses.
type Service struct {
	chores *store.ChoreStore
}

func NewService(chores *store.ChoreStore) *Service {
	return &Service{chores: chores}
}

// Add creates a chore in the house, unassigned, due one schedule interval out.
func (s *Service) Add(ctx context.Context, houseID, title, createdBy string, sched schedule.Schedule) (*model.Chore, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	due := sched.Next(time.Now().UTC())
	c, err := s.chores.Create(uuid.NewString(), houseID, title, createdBy, sched.Frequency.String(), sched.Count, &due)
	if err != nil {
		return nil, fmt.Errorf("add chore: %w", err)
	}
	return c, nil
}

// List returns the house's chores newest first.
func (s *Service) List(ctx context.Context, houseID string) ([]model.Chore, error) {
	return s.chores.ListByHouse(houseID)
}

// Edit updates a chore's title and schedule.
func (s *Service) Edit(ctx context.Context, houseID, choreID, title string, sched schedule.Schedule) (*model.Chore, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	existing, err := s.chores.GetByID(houseID, choreID)
	if err != nil {
		return nil, fmt.Errorf("edit chore: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	c, err := s.chores.Update(houseID, choreID, title, sched.Frequency.String(), sched.Count)
	if err != nil {
		return nil, fmt.Errorf("edit chore: %w", err)
	}
	return c, nil
}

// Delete removes a chore unconditionally.
func (s *Service) Delete(ctx context.Context, houseID, choreID string) error {
	if err := s.chores.Delete(houseID, choreID); err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}

// Complete records a completion and advances the chore's due date by one
// schedule interval.
func (s *Service) Complete(ctx context.Context, houseID, choreID, completedBy string, photoURL *string) (*model.ChoreCompletion, error) {
	existing, err := s.chores.GetByID(houseID, choreID)
	if err != nil {
		return nil, fmt.Errorf("complete chore: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	completion, err := s.chores.CreateCompletion(choreID, completedBy, photoURL)
	if err != nil {
		return nil, fmt.Errorf("complete chore: %w", err)
	}

	freq, err := schedule.ParseFrequency(existing.Frequency)
	if err != nil {
		freq = schedule.Daily
	}
	next := schedule.New(freq, existing.Count).Next(time.Now().UTC())
	if err := s.chores.SetNextDue(houseID, choreID, next); err != nil {
		return nil, fmt.Errorf("complete chore: %w", err)
	}

	return completion, nil
}

package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gk_notification_bot/internal/domain/subscriber"
)

// Application-level errors for subscriber management
var (
	ErrAdminNotAuthorized        = errors.New("performing user is not authorized as an admin")
	ErrAlreadySubscribed         = errors.New("chat is already subscribed")
	ErrNotSubscribed             = errors.New("chat is not subscribed")
	ErrSubscriberAlreadyExists   = errors.New("subscriber with this chat ID already exists")
	ErrSubscriberAlreadyInactive = errors.New("subscriber is already inactive")
)

type SubscriberService struct {
	repo            subscriber.Repository
	adminTelegramID int64
}

func NewSubscriberService(repo subscriber.Repository, adminID int64) *SubscriberService {
	return &SubscriberService{
		repo:            repo,
		adminTelegramID: adminID,
	}
}

// IsAdmin reports whether telegramID is the configured admin.
func (s *SubscriberService) IsAdmin(telegramID int64) bool {
	return telegramID == s.adminTelegramID
}

// Subscribe registers chatID, or reactivates it if it unsubscribed earlier.
func (s *SubscriberService) Subscribe(ctx context.Context, chatID int64, firstName, lastName string) (*subscriber.Subscriber, error) {
	existing, err := s.repo.GetByChatID(ctx, chatID)
	switch {
	case err == nil:
		if existing.IsActive {
			return existing, ErrAlreadySubscribed
		}
		existing.IsActive = true
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to reactivate subscriber: %w", err)
		}
		return existing, nil
	case !errors.Is(err, subscriber.ErrNotFound):
		return nil, fmt.Errorf("failed to check existing subscriber: %w", err)
	}

	created := &subscriber.Subscriber{
		ChatID:    chatID,
		FirstName: firstName,
		LastName:  nullString(lastName),
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, created); err != nil {
		if errors.Is(err, subscriber.ErrDuplicateChatID) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}
	return created, nil
}

// Unsubscribe deactivates chatID.
func (s *SubscriberService) Unsubscribe(ctx context.Context, chatID int64) (*subscriber.Subscriber, error) {
	existing, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, subscriber.ErrNotFound) {
			return nil, ErrNotSubscribed
		}
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	if !existing.IsActive {
		return existing, ErrNotSubscribed
	}
	existing.IsActive = false
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to deactivate subscriber: %w", err)
	}
	return existing, nil
}

// AddSubscriber lets the admin register a chat on its owner's behalf.
func (s *SubscriberService) AddSubscriber(ctx context.Context, performingAdminID, chatID int64, firstName, lastName string) (*subscriber.Subscriber, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}

	_, err := s.repo.GetByChatID(ctx, chatID)
	if err == nil {
		return nil, ErrSubscriberAlreadyExists
	}
	if !errors.Is(err, subscriber.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing subscriber: %w", err)
	}

	created := &subscriber.Subscriber{
		ChatID:    chatID,
		FirstName: firstName,
		LastName:  nullString(lastName),
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, created); err != nil {
		if errors.Is(err, subscriber.ErrDuplicateChatID) {
			return nil, ErrSubscriberAlreadyExists
		}
		return nil, fmt.Errorf("failed to create subscriber in repository: %w", err)
	}
	return created, nil
}

// RemoveSubscriber deactivates a subscriber on the admin's request.
func (s *SubscriberService) RemoveSubscriber(ctx context.Context, performingAdminID, chatID int64) (*subscriber.Subscriber, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}

	target, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, subscriber.ErrNotFound) {
			return nil, subscriber.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscriber for removal: %w", err)
	}
	if !target.IsActive {
		return target, ErrSubscriberAlreadyInactive
	}

	target.IsActive = false
	if err := s.repo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update subscriber to inactive in repository: %w", err)
	}
	return target, nil
}

// ListSubscribers returns active subscribers, or all of them when includeInactive is set.
func (s *SubscriberService) ListSubscribers(ctx context.Context, performingAdminID int64, includeInactive bool) ([]*subscriber.Subscriber, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}
	if includeInactive {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListActive(ctx)
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

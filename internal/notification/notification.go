// Package notification keeps the in-app notification log and its unread counter.
package notification

import (
	"fmt"
	"slices"
	"time"

	storeerrors "github.com/abgdnv/freshcart/internal/errors"
)

// Type classifies a notification.
type Type string

const (
	OrderPlaced    Type = "order_placed"
	OrderCancelled Type = "order_cancelled"
	Promotional    Type = "promotional"
	Info           Type = "info"
)

type Entry struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Read    bool      `json:"read"`
	Type    Type      `json:"type"`
}

// State lists entries newest first.
type State struct {
	Entries     []Entry `json:"notifications"`
	UnreadCount int     `json:"unreadCount"`
}

func (s State) Clone() State {
	return State{Entries: slices.Clone(s.Entries), UnreadCount: s.UnreadCount}
}

// Seed returns the log a new session starts with.
func Seed(now time.Time) State {
	return State{
		Entries: []Entry{
			{
				ID:      "1",
				Title:   "Welcome!",
				Message: "Welcome to MilkQera! Get started by adding products to your cart.",
				Date:    now,
				Type:    Info,
			},
			{
				ID:      "2",
				Title:   "Special Offer",
				Message: "Get 20% off on your first order with code WELCOME20",
				Date:    now,
				Type:    Promotional,
			},
		},
		UnreadCount: 2,
	}
}

type Command interface {
	notificationCommand()
}

// Add prepends Entry as unread. The caller assigns ID and Date.
type Add struct {
	Entry Entry
}

type MarkAllRead struct{}

type MarkRead struct {
	ID string
}

type Clear struct{}

func (Add) notificationCommand()         {}
func (MarkAllRead) notificationCommand() {}
func (MarkRead) notificationCommand()    {}
func (Clear) notificationCommand()       {}

// Reduce applies cmd to s without mutating s.
func Reduce(s State, cmd Command) (State, error) {
	switch c := cmd.(type) {
	case Add:
		entry := c.Entry
		entry.Read = false
		next := s.Clone()
		next.Entries = slices.Insert(next.Entries, 0, entry)
		next.UnreadCount++
		return next, nil
	case MarkAllRead:
		next := s.Clone()
		for i := range next.Entries {
			next.Entries[i].Read = true
		}
		next.UnreadCount = 0
		return next, nil
	case MarkRead:
		i := slices.IndexFunc(s.Entries, func(e Entry) bool { return e.ID == c.ID })
		if i < 0 {
			return s, fmt.Errorf("mark %s read: %w", c.ID, storeerrors.ErrNotificationNotFound)
		}
		if s.Entries[i].Read {
			return s, fmt.Errorf("mark %s read: %w", c.ID, storeerrors.ErrAlreadyRead)
		}
		next := s.Clone()
		next.Entries[i].Read = true
		next.UnreadCount = max(0, next.UnreadCount-1)
		return next, nil
	case Clear:
		return State{}, nil
	default:
		return s, fmt.Errorf("notification %T: %w", cmd, storeerrors.ErrUnknownCommand)
	}
}

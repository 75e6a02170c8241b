// Package ui holds session-only view preferences. Every setter is last-write-wins.
package ui

import (
	"fmt"

	storeerrors "github.com/abgdnv/freshcart/internal/errors"
)

type Preferences struct {
	ActiveCategory string `json:"activeCategory"`
	ActiveTab      string `json:"activeTab"`
	IsSidebarOpen  bool   `json:"isSidebarOpen"`
	IsDarkMode     bool   `json:"isDarkMode"`
}

// Default returns the preferences of a fresh session.
func Default() Preferences {
	return Preferences{ActiveCategory: "Milk", ActiveTab: "Home"}
}

type Command interface {
	uiCommand()
}

type SetActiveCategory struct{ Category string }
type SetActiveTab struct{ Tab string }
type SetDarkMode struct{ Enabled bool }
type ToggleDarkMode struct{}
type ToggleSidebar struct{}

// Update sets every non-nil field in one step.
type Update struct {
	ActiveCategory *string
	ActiveTab      *string
	IsDarkMode     *bool
	IsSidebarOpen  *bool
}

func (SetActiveCategory) uiCommand() {}
func (SetActiveTab) uiCommand()      {}
func (SetDarkMode) uiCommand()       {}
func (ToggleDarkMode) uiCommand()    {}
func (ToggleSidebar) uiCommand()     {}
func (Update) uiCommand()            {}

func Reduce(p Preferences, cmd Command) (Preferences, error) {
	switch c := cmd.(type) {
	case SetActiveCategory:
		p.ActiveCategory = c.Category
	case SetActiveTab:
		p.ActiveTab = c.Tab
	case SetDarkMode:
		p.IsDarkMode = c.Enabled
	case ToggleDarkMode:
		p.IsDarkMode = !p.IsDarkMode
	case ToggleSidebar:
		p.IsSidebarOpen = !p.IsSidebarOpen
	case Update:
		if c.ActiveCategory != nil {
			p.ActiveCategory = *c.ActiveCategory
		}
		if c.ActiveTab != nil {
			p.ActiveTab = *c.ActiveTab
		}
		if c.IsDarkMode != nil {
			p.IsDarkMode = *c.IsDarkMode
		}
		if c.IsSidebarOpen != nil {
			p.IsSidebarOpen = *c.IsSidebarOpen
		}
	default:
		return p, fmt.Errorf("ui %T: %w", cmd, storeerrors.ErrUnknownCommand)
	}
	return p, nil
}

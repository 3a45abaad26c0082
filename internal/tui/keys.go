package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the demo page.
type KeyMap struct {
	// Toasts
	ShortToast      key.Binding
	InfoToast       key.Binding
	LongToast       key.Binding
	TitledToast     key.Binding
	LongTitledToast key.Binding
	CallbackToast   key.Binding
	Burst           key.Binding
	HideToast       key.Binding
	ClearToasts     key.Binding
	Activate        key.Binding
	Swipe           key.Binding

	// Status bar
	ToggleStatus        key.Binding
	ToggleIndeterminate key.Binding
	SimulateProgress    key.Binding

	// Page
	Up   key.Binding
	Down key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ShortToast, k.InfoToast, k.HideToast, k.ToggleStatus, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ShortToast, k.InfoToast, k.LongToast, k.TitledToast, k.LongTitledToast},
		{k.CallbackToast, k.Burst, k.HideToast, k.ClearToasts},
		{k.Activate, k.Swipe, k.ToggleStatus, k.ToggleIndeterminate, k.SimulateProgress},
		{k.Up, k.Down, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ShortToast: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "short toast"),
		),
		InfoToast: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "info toast"),
		),
		LongToast: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "long toast"),
		),
		TitledToast: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "titled toast"),
		),
		LongTitledToast: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "long titled toast"),
		),
		CallbackToast: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "toast with callback"),
		),
		Burst: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "queue a burst"),
		),
		HideToast: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hide toast"),
		),
		ClearToasts: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear all"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "tap toast"),
		),
		Swipe: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "swipe toast away"),
		),
		ToggleStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle status bar"),
		),
		ToggleIndeterminate: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle indeterminate"),
		),
		SimulateProgress: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "simulate download"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

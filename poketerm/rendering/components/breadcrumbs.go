package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// Breadcrumbs is a stack of ways back to earlier views
type Breadcrumbs struct {
	backtrace []func() tea.Model
}

func NewBreadcrumb() Breadcrumbs {
	return Breadcrumbs{}
}

// Push a model onto the breadcrumb stack.
// Returns the modified copy.
func (b Breadcrumbs) Push(model tea.Model) Breadcrumbs {
	return b.PushNew(func() tea.Model {
		return model
	})
}

// Push a function that creates a new model onto the stack.
// Returns the modified copy.
func (b Breadcrumbs) PushNew(modelFunc func() tea.Model) Breadcrumbs {
	// copy so pushes on an older copy never clobber this one
	backtrace := make([]func() tea.Model, len(b.backtrace), len(b.backtrace)+1)
	copy(backtrace, b.backtrace)
	b.backtrace = append(backtrace, modelFunc)

	log.Debug().Int("depth", len(b.backtrace)).Msg("breadcrumb push")
	return b
}

func (b Breadcrumbs) Len() int {
	return len(b.backtrace)
}

// Pop returns the newest model and the stack without it. ok is false on an empty stack.
func (b Breadcrumbs) Pop() (tea.Model, Breadcrumbs, bool) {
	l := len(b.backtrace)
	if l == 0 {
		return nil, b, false
	}

	modelFunc := b.backtrace[l-1]
	b.backtrace = b.backtrace[:l-1]

	log.Debug().Int("depth", len(b.backtrace)).Msg("breadcrumb pop")
	return modelFunc(), b, true
}

func (b Breadcrumbs) PopDefault(def func() tea.Model) tea.Model {
	model, _, ok := b.Pop()
	if !ok {
		return def()
	}

	return model
}

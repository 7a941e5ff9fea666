package rendering

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SimpleItem is a list item rendered as a single line
type SimpleItem interface {
	list.Item
	Value() string
	// Disabled items are drawn grayed out
	Disabled() bool
}

type simpleDelegate struct {
	HighlightedItemStyle lipgloss.Style
	ItemStyle            lipgloss.Style
	DisabledItemStyle    lipgloss.Style

	spacing int
}

func (d simpleDelegate) Height() int {
	// the smaller style's height, but at least 1
	return max(1, min(d.ItemStyle.GetHeight(), d.HighlightedItemStyle.GetHeight()))
}
func (d simpleDelegate) Spacing() int                            { return d.spacing }
func (d simpleDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d simpleDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(SimpleItem)
	if !ok {
		fmt.Fprint(w, d.ItemStyle.Render(listItem.FilterValue()))
		return
	}

	style := d.ItemStyle
	switch {
	case index == m.Index():
		style = d.HighlightedItemStyle
	case item.Disabled():
		style = d.DisabledItemStyle
	}

	fmt.Fprint(w, style.Render(item.Value()))
}

func (d *simpleDelegate) SetSpacing(spacing int) {
	d.spacing = spacing
}

func NewSimpleListDelegate() simpleDelegate {
	return simpleDelegate{HighlightedItemStyle, ItemStyle, ItemStyle.Foreground(DisabledColor), 0}
}

// NewSimpleList is a bare list of SimpleItems without the title, filter or status bar
func NewSimpleList(items []SimpleItem, width int, height int) list.Model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	l := list.New(listItems, NewSimpleListDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

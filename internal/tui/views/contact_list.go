package views

import (
	"fmt"
	"time"

	"github.com/ifaasih/mvx/internal/store"
	"github.com/rivo/tview"
)

// ContactList is the main conversation table.
type ContactList struct {
	*tview.Table
	contacts   []store.Contact
	onSelect   func(key string)
	selectedFn func() (int, int)
}

// NewContactList creates a new contact list table.
func NewContactList() *ContactList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Contacts ")

	cl := &ContactList{Table: table}
	cl.selectedFn = table.GetSelection
	return cl
}

// SetOnSelect sets the callback when a contact is selected.
func (cl *ContactList) SetOnSelect(fn func(key string)) {
	cl.onSelect = fn
	cl.SetSelectedFunc(func(row, col int) {
		if key := cl.SelectedContact(); key != "" && cl.onSelect != nil {
			cl.onSelect(key)
		}
	})
}

// Update refreshes the table. snippets carries per-contact search match
// context and may be nil when no filter is active.
func (cl *ContactList) Update(contacts []store.Contact, snippets map[string]string) {
	cl.contacts = contacts
	cl.Clear()

	cl.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 1, tview.NewTableCell(" Last Message").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 2, tview.NewTableCell(" Time").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, c := range contacts {
		row := i + 1
		name := c.Name
		if name == "" || name == "Unknown" {
			name = c.Phone
		}
		if !c.IsRead {
			name = fmt.Sprintf("* %s", name)
		}
		if c.MessageCount > 1 {
			name = fmt.Sprintf("%s (%d)", name, c.MessageCount)
		}

		preview := c.LastMessage
		if s, ok := snippets[c.Key]; ok && s != "" {
			preview = s
		}

		cl.SetCell(row, 0, tview.NewTableCell(" "+sanitizeForTerminal(name)).SetMaxWidth(30).SetExpansion(1))
		cl.SetCell(row, 1, tview.NewTableCell(" "+sanitizeForTerminal(preview)).SetMaxWidth(40).SetExpansion(2))
		cl.SetCell(row, 2, tview.NewTableCell(" "+formatTimestamp(c.LastMessageAt)).SetMaxWidth(12))
	}

	if len(contacts) > 0 {
		cl.Select(1, 0)
	}
}

// SelectedContact returns the key of the currently selected contact.
func (cl *ContactList) SelectedContact() string {
	row, _ := cl.selectedFn()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(cl.contacts) {
		return cl.contacts[idx].Key
	}
	return ""
}

func formatTimestamp(ms int64) string {
	if ms == 0 {
		return ""
	}
	t := time.UnixMilli(ms)
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("02/01/06")
}

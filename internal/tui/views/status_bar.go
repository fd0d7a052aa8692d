package views

import (
	"fmt"
	"path/filepath"

	"github.com/rivo/tview"
)

// StatusBar displays persistent viewer status.
type StatusBar struct {
	*tview.TextView
	export   string
	status   string
	contacts int64
	unread   int64
	flash    string
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv}
}

// SetExport updates the displayed export name.
func (sb *StatusBar) SetExport(path string) {
	sb.export = filepath.Base(path)
	sb.render()
}

// SetStatus updates the run-state display.
func (sb *StatusBar) SetStatus(status string) {
	sb.status = status
	sb.render()
}

// SetCounts updates the contact/unread counters.
func (sb *StatusBar) SetCounts(contacts, unread int64) {
	sb.contacts = contacts
	sb.unread = unread
	sb.render()
}

// SetFlash sets a temporary message.
func (sb *StatusBar) SetFlash(msg string) {
	sb.flash = msg
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %d contacts", sb.export, sb.status, sb.contacts)
	if sb.unread > 0 {
		line += fmt.Sprintf(" | [red]%d unread[-]", sb.unread)
	}
	if sb.flash != "" {
		line += fmt.Sprintf(" | [yellow]%s[-]", sb.flash)
	}

	_, _ = fmt.Fprint(sb, line)
}

package views

import (
	"fmt"

	"github.com/ifaasih/mvx/internal/store"
	"github.com/rivo/tview"
)

// ThreadView displays the message thread for a single contact.
type ThreadView struct {
	*tview.TextView
	contactName string
}

// NewThreadView creates a new thread view.
func NewThreadView() *ThreadView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Messages ")

	return &ThreadView{TextView: tv}
}

// SetContactName updates the title with the contact name.
func (tv *ThreadView) SetContactName(name string) {
	tv.contactName = name
	tv.SetTitle(fmt.Sprintf(" %s ", sanitizeForTerminal(name)))
}

// Update renders the thread oldest-first. When jumpTo names a message id
// present in the thread, that message is highlighted and scrolled into
// view; otherwise the view scrolls to the newest message.
func (tv *ThreadView) Update(msgs []store.Message, jumpTo int64) {
	tv.Clear()

	highlight := ""
	for _, m := range msgs {
		sender := tv.contactName
		if m.FromMe {
			sender = "You"
		}

		marker := ""
		if m.IsCallLog {
			marker = " [call]"
		}

		region := fmt.Sprintf("m%d", m.ID)
		if jumpTo != 0 && m.MsgID == jumpTo {
			highlight = region
		}

		line := fmt.Sprintf("[\"%s\"][::b]%s[-:-:-] [::d]%s · %s%s[-:-:-]\n%s[\"\"]\n\n",
			region, sanitizeForTerminal(sender), formatTimestamp(m.Timestamp), m.Status, marker,
			sanitizeForTerminal(m.Body))
		_, _ = fmt.Fprint(tv, line)
	}

	if highlight != "" {
		tv.Highlight(highlight)
		tv.ScrollToHighlight()
	} else {
		tv.Highlight()
		tv.ScrollToEnd()
	}
}

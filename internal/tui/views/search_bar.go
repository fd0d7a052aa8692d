package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// SearchBar is the incremental search input above the contact list.
type SearchBar struct {
	*tview.InputField
	onChange func(query string)
	onDone   func()
}

// NewSearchBar creates a new search input.
func NewSearchBar() *SearchBar {
	input := tview.NewInputField().
		SetLabel(" / ").
		SetFieldWidth(0)

	sb := &SearchBar{InputField: input}

	input.SetChangedFunc(func(text string) {
		if sb.onChange != nil {
			sb.onChange(text)
		}
	})
	input.SetDoneFunc(func(key tcell.Key) {
		if (key == tcell.KeyEnter || key == tcell.KeyEscape) && sb.onDone != nil {
			if key == tcell.KeyEscape {
				sb.SetText("")
			}
			sb.onDone()
		}
	})

	return sb
}

// SetOnChange sets the callback fired on every keystroke.
func (sb *SearchBar) SetOnChange(fn func(query string)) {
	sb.onChange = fn
}

// SetOnDone sets the callback fired when the input is left.
func (sb *SearchBar) SetOnDone(fn func()) {
	sb.onDone = fn
}

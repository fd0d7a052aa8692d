package tui

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/ifaasih/mvx/internal/bus"
	"github.com/ifaasih/mvx/internal/config"
	"github.com/ifaasih/mvx/internal/index"
	"github.com/ifaasih/mvx/internal/search"
	"github.com/ifaasih/mvx/internal/status"
	"github.com/ifaasih/mvx/internal/store"
	"github.com/ifaasih/mvx/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// App is the viewer TUI shell: a searchable contact list and a message
// thread pane over the in-process store and search worker.
type App struct {
	app     *tview.Application
	pages   *tview.Pages
	db      *store.DB
	worker  *search.Worker
	bus     *bus.Bus
	machine *status.Machine
	cfg     *config.Config
	logger  *zap.Logger

	contactList *views.ContactList
	thread      *views.ThreadView
	searchBar   *views.SearchBar
	statusBar   *views.StatusBar

	// Search dispatch is debounced after the last keystroke, and only the
	// response matching the latest issued request id may be displayed.
	debounceMu sync.Mutex
	debounce   *time.Timer
	latestID   atomic.Int64

	matchMu sync.Mutex
	matches map[string]index.Match // per-contact jump target of the active filter

	unsub func()
}

// NewApp creates the TUI application.
func NewApp(db *store.DB, worker *search.Worker, b *bus.Bus, machine *status.Machine, cfg *config.Config, exportPath string, logger *zap.Logger) *App {
	a := &App{
		app:         tview.NewApplication(),
		pages:       tview.NewPages(),
		db:          db,
		worker:      worker,
		bus:         b,
		machine:     machine,
		cfg:         cfg,
		logger:      logger,
		contactList: views.NewContactList(),
		thread:      views.NewThreadView(),
		searchBar:   views.NewSearchBar(),
		statusBar:   views.NewStatusBar(),
		matches:     make(map[string]index.Match),
	}

	a.statusBar.SetExport(exportPath)
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupCallbacks() {
	a.contactList.SetOnSelect(func(key string) {
		a.openThread(key)
	})

	a.searchBar.SetOnChange(func(query string) {
		a.debounceMu.Lock()
		if a.debounce != nil {
			a.debounce.Stop()
		}
		a.debounce = time.AfterFunc(a.cfg.Debounce(), func() {
			a.dispatchSearch(query)
		})
		a.debounceMu.Unlock()
	})
	a.searchBar.SetOnDone(func() {
		a.app.SetFocus(a.contactList)
	})
}

func (a *App) setupLayout() {
	listFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.searchBar, 1, 0, false).
		AddItem(a.contactList, 0, 1, true)

	a.pages.AddPage("contacts", listFlex, true, true)
	a.pages.AddPage("thread", a.thread, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape && currentPage == "thread" {
			a.pages.SwitchToPage("contacts")
			a.app.SetFocus(a.contactList)
			return nil
		}

		// Let the search input handle all keys normally.
		if _, ok := a.app.GetFocus().(*tview.InputField); ok {
			return event
		}

		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case 'q':
				a.app.Stop()
				return nil
			case '/':
				if currentPage == "contacts" {
					a.app.SetFocus(a.searchBar)
					return nil
				}
			}
		}

		return event
	})
}

// dispatchSearch submits a query to the worker and applies the response
// only if it is still the latest one.
func (a *App) dispatchSearch(query string) {
	id, ch := a.worker.Submit(query)
	a.noteSubmitted(id)

	go func() {
		res := <-ch
		if !a.isLatest(res.ID) {
			return // superseded by a newer keystroke
		}
		a.app.QueueUpdateDraw(func() {
			a.applyFilter(res)
		})
	}()
}

// noteSubmitted records id as the newest issued request. Submit and the
// record are not atomic as a pair, so two overlapping dispatches can reach
// here out of order; the CAS loop keeps latestID monotonic either way.
func (a *App) noteSubmitted(id int64) {
	for {
		cur := a.latestID.Load()
		if id <= cur {
			return
		}
		if a.latestID.CompareAndSwap(cur, id) {
			return
		}
	}
}

// isLatest reports whether a response id still matches the newest issued
// request. Responses for superseded ids must be dropped, never displayed.
func (a *App) isLatest(id int64) bool {
	return id >= a.latestID.Load()
}

func (a *App) applyFilter(res search.Result) {
	a.matchMu.Lock()
	a.matches = make(map[string]index.Match, len(res.Matches))
	for _, m := range res.Matches {
		a.matches[m.ContactID] = m
	}
	snippets := make(map[string]string, len(res.Matches))
	for _, m := range res.Matches {
		snippets[m.ContactID] = m.Snippet
	}
	a.matchMu.Unlock()

	contacts, err := a.db.ListContacts(0, 0)
	if err != nil {
		a.logger.Error("failed to list contacts", zap.Error(err))
		a.statusBar.SetFlash("List failed: " + err.Error())
		return
	}

	if !res.Filtered {
		a.contactList.Update(contacts, nil)
		a.statusBar.SetFlash("")
		return
	}

	filtered := contacts[:0:0]
	for _, c := range contacts {
		if _, ok := snippets[c.Key]; ok {
			filtered = append(filtered, c)
		}
	}
	a.contactList.Update(filtered, snippets)
	if len(filtered) == 0 {
		a.statusBar.SetFlash("No matches")
	} else {
		a.statusBar.SetFlash("")
	}
}

func (a *App) openThread(key string) {
	a.matchMu.Lock()
	jumpTo := a.matches[key].MessageID
	a.matchMu.Unlock()

	go func() {
		contact, err := a.db.GetContact(key)
		if err != nil || contact == nil {
			a.logger.Error("failed to load contact", zap.String("key", key), zap.Error(err))
			return
		}
		msgs, err := a.db.ListMessages(key, 0, 0)
		if err != nil {
			a.logger.Error("failed to load messages", zap.String("key", key), zap.Error(err))
			return
		}
		a.app.QueueUpdateDraw(func() {
			name := contact.Name
			if name == "" || name == "Unknown" {
				name = contact.Phone
			}
			a.thread.SetContactName(name)
			a.thread.Update(msgs, jumpTo)
			a.pages.SwitchToPage("thread")
			a.app.SetFocus(a.thread)
		})
	}()
}

func (a *App) refresh() {
	contacts, err := a.db.ListContacts(0, 0)
	if err != nil {
		a.logger.Error("failed to list contacts", zap.Error(err))
		return
	}
	unread, _ := a.db.UnreadCount()

	a.app.QueueUpdateDraw(func() {
		a.contactList.Update(contacts, nil)
		a.statusBar.SetCounts(int64(len(contacts)), unread)
	})
}

// Run starts the TUI application.
func (a *App) Run() error {
	a.statusBar.SetStatus(string(a.machine.Current()))

	ch, unsub := a.bus.Subscribe("viewer.", 32)
	a.unsub = unsub
	go func() {
		for evt := range ch {
			change, ok := evt.Payload.(status.StatusChange)
			if !ok {
				continue
			}
			a.app.QueueUpdateDraw(func() {
				a.statusBar.SetStatus(string(change.To))
			})
		}
	}()

	go a.refresh()

	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	if a.unsub != nil {
		a.unsub()
	}
	a.app.Stop()
}

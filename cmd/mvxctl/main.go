package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ifaasih/mvx/internal/app"
	"github.com/ifaasih/mvx/internal/search"
	"github.com/ifaasih/mvx/internal/store"
	"go.uber.org/fx"
)

func main() {
	exportFlag := flag.String("export", "", "path to the export JSON file")
	configFlag := flag.String("config", "", "config file path (overrides ~/.mvx/config.toml)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	args := flag.Args()
	if *exportFlag == "" || len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	params := app.Params{
		ExportPath: *exportFlag,
		ConfigPath: *configFlag,
		LogConsole: false,
	}

	var (
		db     *store.DB
		worker *search.Worker
	)
	fxApp := fx.New(
		app.Module(params),
		fx.Populate(&db, &worker),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := fxApp.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = fxApp.Stop(ctx) }()

	switch args[0] {
	case "stats":
		cmdStats(db, *jsonFlag)
	case "search":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: mvxctl --export <file> search <query>")
			os.Exit(1)
		}
		cmdSearch(db, worker, args[1], *jsonFlag)
	case "contacts":
		cmdContacts(db, *jsonFlag)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: mvxctl --export <file.json> [--config <path>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  stats             Show contact/message/unread counts")
	fmt.Fprintln(os.Stderr, "  contacts          List contacts, newest conversation first")
	fmt.Fprintln(os.Stderr, "  search <query>    Run a substring search over all conversations")
}

func cmdStats(db *store.DB, jsonOut bool) {
	contacts, err := db.ContactCount()
	exitOn(err)
	messages, err := db.MessageCount()
	exitOn(err)
	unread, err := db.UnreadCount()
	exitOn(err)

	if jsonOut {
		outputJSON(map[string]int64{
			"contacts": contacts,
			"messages": messages,
			"unread":   unread,
		})
		return
	}
	fmt.Printf("Contacts: %d\n", contacts)
	fmt.Printf("Messages: %d\n", messages)
	fmt.Printf("Unread:   %d\n", unread)
}

func cmdContacts(db *store.DB, jsonOut bool) {
	contacts, err := db.ListContacts(0, 0)
	exitOn(err)

	if jsonOut {
		outputJSON(contacts)
		return
	}
	for _, c := range contacts {
		marker := " "
		if !c.IsRead {
			marker = "*"
		}
		fmt.Printf("%s %-20s %-14s %4d msgs  %s\n", marker, c.Name, c.Phone, c.MessageCount, c.LastMessage)
	}
}

func cmdSearch(db *store.DB, worker *search.Worker, query string, jsonOut bool) {
	res := worker.Search(query)
	if !res.Filtered {
		fmt.Fprintln(os.Stderr, "empty query")
		os.Exit(1)
	}

	if jsonOut {
		outputJSON(res.Matches)
		return
	}
	for _, m := range res.Matches {
		name := m.ContactID
		if c, err := db.GetContact(m.ContactID); err == nil && c != nil {
			name = c.Name
		}
		if m.Snippet != "" {
			fmt.Printf("%-20s #%d  %s\n", name, m.MessageID, m.Snippet)
		} else {
			fmt.Printf("%-20s (contact match)\n", name)
		}
	}
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

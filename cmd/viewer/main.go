package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"pairchat/domain"
)

// Viewer dumps the stored message log of one conversation (or every
// conversation) as a table. It opens the database read-only so it can run
// next to a live server.
func main() {
	_ = godotenv.Load()

	dbPath := flag.String("db", os.Getenv("BADGER_FILEPATH"), "Path to badger DB")
	conversation := flag.String("conversation", "", "Conversation id to dump (empty for all)")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("missing database path: set -db or BADGER_FILEPATH")
	}

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	prefix := "conv:"
	if *conversation != "" {
		prefix = fmt.Sprintf("conv:%s:", *conversation)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Conversation", "From", "To", "Lang", "Content"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	count := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var message domain.Message
				if err := json.Unmarshal(v, &message); err != nil {
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				table.Append([]string{
					message.CreatedAt.Format("2006-01-02 15:04:05"),
					shorten(message.ConversationID),
					shorten(message.From),
					shorten(message.To),
					message.Lang,
					message.Content,
				})
				count++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	header := fmt.Sprintf("%d message(s) under prefix %q", count, prefix)
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(header))
	table.Render()
}

// shorten keeps ids readable in the table.
func shorten(id string) string {
	if a, b, ok := strings.Cut(id, "_"); ok {
		return shorten(a) + "_" + shorten(b)
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

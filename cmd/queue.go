package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelsmith/internal/store"
	"reelsmith/pkg/config"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the book queue",
}

var queueAddCmd = &cobra.Command{
	Use:   "add <title> <author>",
	Short: "Enqueue a book for processing",
	Args:  cobra.ExactArgs(2),
	RunE:  runQueueAdd,
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all books and their status",
	RunE:  runQueueList,
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove completed books from the queue",
	RunE:  runQueueClear,
}

func init() {
	queueCmd.AddCommand(queueAddCmd, queueListCmd, queueClearCmd)
	rootCmd.AddCommand(queueCmd)
}

func openStore() (*store.Store, error) {
	cfg := config.Load()
	return store.Open(cfg.Database.Path)
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	book, err := db.Enqueue(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Queued #%d: %q by %s\n", book.ID, book.Title, book.Author)
	return nil
}

func runQueueList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	books, err := db.ListBooks(cmd.Context())
	if err != nil {
		return err
	}
	if len(books) == 0 {
		fmt.Println("Queue is empty.")
		return nil
	}

	for _, book := range books {
		line := fmt.Sprintf("#%d  [%s]  %q by %s", book.ID, book.Status, book.Title, book.Author)
		if book.ErrorMessage != "" {
			line += "  (" + book.ErrorMessage + ")"
		}
		fmt.Println(line)
	}
	return nil
}

func runQueueClear(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	removed, err := db.DeleteCompletedBooks(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Removed %d completed books.\n", removed)
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const bookColumns = "id, title, author, status, error_message, created_at, updated_at"

// Enqueue inserts a new pending book at the back of the queue.
func (s *Store) Enqueue(ctx context.Context, title, author string) (*Book, error) {
	now := timestamp(time.Now())
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO books (title, author, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		title, author, BookPending, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetBook(ctx, id)
}

// GetBook fetches a book by identifier, returning nil when absent.
func (s *Store) GetBook(ctx context.Context, id int64) (*Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// NextQueued returns the oldest book still awaiting processing: pending,
// or in_progress left over from an aborted run. Returns nil when the
// queue is empty.
func (s *Store) NextQueued(ctx context.Context) (*Book, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+bookColumns+` FROM books WHERE status IN (?, ?) ORDER BY created_at ASC, id ASC LIMIT 1`,
		BookPending, BookInProgress,
	)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next queued book: %w", err)
	}
	return book, nil
}

// ClaimBook transitions the book to in_progress with a conditional update
// keyed on the status and updated_at the caller observed. Exactly one of
// several concurrent claimers succeeds; the rest see false.
func (s *Store) ClaimBook(ctx context.Context, book *Book) (bool, error) {
	now := time.Now()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE books SET status = ?, error_message = NULL, updated_at = ? WHERE id = ? AND status = ? AND updated_at = ?`,
		BookInProgress, timestamp(now), book.ID, book.Status, timestamp(book.UpdatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("claim book: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	book.Status = BookInProgress
	book.UpdatedAt = now.UTC()
	return true, nil
}

// ReleaseBook returns a claimed book to pending so a later run can resume
// it, recording why the run let go of it.
func (s *Store) ReleaseBook(ctx context.Context, id int64, reason string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE books SET status = ?, error_message = ?, updated_at = ? WHERE id = ? AND status = ?`,
		BookPending, nullableString(reason), timestamp(time.Now()), id, BookInProgress,
	)
	if err != nil {
		return fmt.Errorf("release book: %w", err)
	}
	return nil
}

// CompleteBook marks a claimed book as completed.
func (s *Store) CompleteBook(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE books SET status = ?, error_message = NULL, updated_at = ? WHERE id = ? AND status = ?`,
		BookCompleted, timestamp(time.Now()), id, BookInProgress,
	)
	if err != nil {
		return fmt.Errorf("complete book: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("complete book %d: not in progress", id)
	}
	return nil
}

// ListBooks returns books filtered by status (or all when none given),
// oldest first.
func (s *Store) ListBooks(ctx context.Context, statuses ...BookStatus) ([]*Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books`
	var args []any
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + placeholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// DeleteCompletedBooks removes completed books from the queue.
func (s *Store) DeleteCompletedBooks(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE status = ?`, BookCompleted)
	if err != nil {
		return 0, fmt.Errorf("delete completed books: %w", err)
	}
	return res.RowsAffected()
}

func scanBook(scanner interface{ Scan(dest ...any) error }) (*Book, error) {
	var (
		book       Book
		author     sql.NullString
		errMsg     sql.NullString
		createdRaw string
		updatedRaw string
		statusStr  string
	)
	if err := scanner.Scan(&book.ID, &book.Title, &author, &statusStr, &errMsg, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	book.Author = author.String
	book.Status = BookStatus(statusStr)
	book.ErrorMessage = errMsg.String
	book.CreatedAt = parseTimestamp(createdRaw)
	book.UpdatedAt = parseTimestamp(updatedRaw)
	return &book, nil
}

func placeholders(count int) string {
	out := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '?')
	}
	return string(out)
}

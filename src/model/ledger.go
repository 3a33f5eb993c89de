package model

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/money"
	"github.com/focoagora/backend/src/utils"
)

const ledgerColumns = `id, kind, description, category, amount_cents, due_date, paid, is_projection, origin_channel, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLedgerEntry(row rowScanner) (models.LedgerEntry, error) {
	var (
		e         models.LedgerEntry
		kind      string
		cents     int64
		dueDate   string
		createdAt time.Time
	)
	if err := row.Scan(&e.ID, &kind, &e.Description, &e.Category, &cents, &dueDate, &e.Paid, &e.IsProjection, &e.OriginChannel, &createdAt); err != nil {
		return e, err
	}
	e.Kind = models.EntryKind(kind)
	e.Amount = money.FromCents(cents)
	e.DueDate, _ = utils.ParseISODate(dueDate)
	e.CreatedAt = createdAt
	return e, nil
}

// ListLedgerEntries returns a user's entries ordered by due date.
func ListLedgerEntries(db *sql.DB, userID string, filter models.LedgerFilter) ([]models.LedgerEntry, error) {
	var (
		conditions = []string{"user_id = ?"}
		args       = []any{userID}
	)
	if filter.Paid != nil {
		conditions = append(conditions, "paid = ?")
		args = append(args, *filter.Paid)
	}
	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if !filter.Month.IsZero() {
		conditions = append(conditions, "substr(due_date, 1, 7) = ?")
		args = append(args, filter.Month.Format("2006-01"))
	}

	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY due_date ASC, created_at ASC, id ASC`
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetLedgerEntry returns one entry or ErrNotFound.
func GetLedgerEntry(db *sql.DB, userID, id string) (models.LedgerEntry, error) {
	row := db.QueryRow(`SELECT `+ledgerColumns+` FROM ledger_entries WHERE user_id = ? AND id = ?`, userID, id)
	e, err := scanLedgerEntry(row)
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	return e, err
}

// InsertLedgerEntries stores entries in a single transaction.
func InsertLedgerEntries(db *sql.DB, userID string, entries []models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning ledger insert: %w", err)
	}
	defer tx.Rollback()

	if err := insertLedgerEntriesTx(tx, userID, entries); err != nil {
		return err
	}
	return tx.Commit()
}

func insertLedgerEntriesTx(tx *sql.Tx, userID string, entries []models.LedgerEntry) error {
	stmt, err := tx.Prepare(`INSERT INTO ledger_entries (` + ledgerColumns + `, user_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing ledger insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range entries {
		created := e.CreatedAt
		if created.IsZero() {
			created = now
		}
		if _, err := stmt.Exec(e.ID, string(e.Kind), e.Description, e.Category, money.ToCents(e.Amount),
			utils.FormatISODate(e.DueDate), e.Paid, e.IsProjection, e.OriginChannel, created, userID); err != nil {
			return fmt.Errorf("inserting ledger entry %s: %w", e.ID, err)
		}
	}
	return nil
}

// SetLedgerEntryPaid flips the paid flag, the only mutation an entry allows.
func SetLedgerEntryPaid(db *sql.DB, userID, id string, paid bool) error {
	res, err := db.Exec(`UPDATE ledger_entries SET paid = ? WHERE user_id = ? AND id = ?`, paid, userID, id)
	if err != nil {
		return fmt.Errorf("updating ledger entry %s: %w", id, err)
	}
	return requireAffected(res)
}

// DeleteLedgerEntry removes a single entry.
func DeleteLedgerEntry(db *sql.DB, userID, id string) error {
	res, err := db.Exec(`DELETE FROM ledger_entries WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("deleting ledger entry %s: %w", id, err)
	}
	return requireAffected(res)
}

// ReplaceProjectionEntries deletes every projection of the user and inserts fresh in one transaction.
// It returns how many projections were removed.
func ReplaceProjectionEntries(db *sql.DB, userID string, fresh []models.LedgerEntry) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning projection replace: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM ledger_entries WHERE user_id = ? AND is_projection = 1`, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting projections: %w", err)
	}
	removed, _ := res.RowsAffected()

	if err := insertLedgerEntriesTx(tx, userID, fresh); err != nil {
		return 0, err
	}
	return removed, tx.Commit()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

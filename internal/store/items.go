package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bytecart/internal/model"
)

// Mutation outcomes for owned items. The conditional write matches on
// (id, user_id) in one statement; a zero matched count is disambiguated
// with a follow-up read so callers can tell the two cases apart.
var (
	ErrNotFound = errors.New("item not found")
	ErrNotOwner = errors.New("item not owned by user")
)

const itemColumns = `id, user_id, name, type, quantity, expiry_date, notes, image_url, created_at, updated_at`

// CreateItem inserts a new item and returns the stored record.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (user_id, name, type, quantity, expiry_date, notes, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.UserID, item.Name, item.Type, item.Quantity, item.ExpiryDate.UTC(), item.Notes, item.ImageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.UserID, &item.Name, &item.Type, &item.Quantity,
		&item.ExpiryDate, &item.Notes, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items owned by a user, soonest expiry first.
func ListItems(ctx context.Context, db *sql.DB, userID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE user_id = ? ORDER BY expiry_date ASC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ExpiringSoonFromDays and ExpiringSoonToDays bound the dashboard
// "expiring soon" window. It deliberately starts after the reminder
// sweep window ends: the sweep covers the urgent first two days, this
// query the upcoming ones.
const (
	ExpiringSoonFromDays = 3
	ExpiringSoonToDays   = 7
)

// ListExpiringSoon returns a user's items whose expiry falls within
// [now+3d, now+7d], soonest first.
func ListExpiringSoon(ctx context.Context, db *sql.DB, userID int64, now time.Time) ([]model.Item, error) {
	from := now.AddDate(0, 0, ExpiringSoonFromDays).UTC()
	to := now.AddDate(0, 0, ExpiringSoonToDays).UTC()

	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE user_id = ? AND expiry_date >= ? AND expiry_date <= ?
		 ORDER BY expiry_date ASC`, userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("listing expiring items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListExpiringWithin returns every item across all users whose expiry falls
// within [from, to], joined with the owner's contact details for the
// reminder sweep.
func ListExpiringWithin(ctx context.Context, db *sql.DB, from, to time.Time) ([]model.ExpiringItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT i.id, i.user_id, i.name, i.type, i.quantity, i.expiry_date,
		        i.notes, i.image_url, i.created_at, i.updated_at,
		        u.name AS owner_name, u.email AS owner_email
		 FROM items i
		 JOIN users u ON u.id = i.user_id
		 WHERE i.expiry_date >= ? AND i.expiry_date <= ?
		 ORDER BY i.user_id, i.expiry_date ASC`, from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing items for reminder sweep: %w", err)
	}
	defer rows.Close()

	var items []model.ExpiringItem
	for rows.Next() {
		var item model.ExpiringItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Type, &item.Quantity,
			&item.ExpiryDate, &item.Notes, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt,
			&item.OwnerName, &item.OwnerEmail); err != nil {
			return nil, fmt.Errorf("scanning expiring item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItemOwned replaces all editable fields of an item, but only if it is
// owned by userID. The match on (id, user_id) happens in a single statement,
// so a concurrent delete or a foreign owner cannot be clobbered.
func UpdateItemOwned(ctx context.Context, db *sql.DB, id, userID int64, item model.Item) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, type = ?, quantity = ?, expiry_date = ?,
		        notes = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		item.Name, item.Type, item.Quantity, item.ExpiryDate.UTC(), item.Notes, item.ImageURL,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	matched, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	}
	if matched == 0 {
		return nil, ownedMiss(ctx, db, id)
	}

	return GetItem(ctx, db, id)
}

// DeleteItemOwned permanently removes an item, but only if it is owned by
// userID.
func DeleteItemOwned(ctx context.Context, db *sql.DB, id, userID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	matched, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if matched == 0 {
		return ownedMiss(ctx, db, id)
	}

	return nil
}

// ownedMiss turns a zero matched count into the right error: the item
// either does not exist at all or belongs to someone else.
func ownedMiss(ctx context.Context, db *sql.DB, id int64) error {
	item, err := GetItem(ctx, db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}
	return ErrNotOwner
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Type, &item.Quantity,
			&item.ExpiryDate, &item.Notes, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

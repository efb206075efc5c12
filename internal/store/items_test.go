package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"bytecart/internal/db"
	"bytecart/internal/model"
)

func testUser(t *testing.T, database *sql.DB, email string) *model.User {
	t.Helper()
	user, err := CreateUser(context.Background(), database, "Test User", email, "hash")
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}

func testItem(t *testing.T, database *sql.DB, userID int64, name string, expiry time.Time) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, model.Item{
		UserID:     userID,
		Name:       name,
		Type:       model.ItemTypeGrocery,
		Quantity:   1,
		ExpiryDate: expiry,
	})
	if err != nil {
		t.Fatalf("creating test item: %v", err)
	}
	return item
}

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := testUser(t, database, "owner@example.com")

	expiry := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	item, err := CreateItem(ctx, database, model.Item{
		UserID:     user.ID,
		Name:       "Milk",
		Type:       model.ItemTypeGrocery,
		Quantity:   2,
		ExpiryDate: expiry,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if item.Name != "Milk" || item.Type != model.ItemTypeGrocery || item.Quantity != 2 {
		t.Errorf("unexpected item fields: %+v", item)
	}
	if !item.ExpiryDate.Equal(expiry) {
		t.Errorf("expected expiry %v, got %v", expiry, item.ExpiryDate)
	}
	if item.Notes != "" || item.ImageURL != "" {
		t.Errorf("expected empty notes and imageUrl, got %q / %q", item.Notes, item.ImageURL)
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestListItemsSortedByExpiry(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := testUser(t, database, "owner@example.com")
	now := time.Now()

	testItem(t, database, user.ID, "Late", now.AddDate(0, 0, 9))
	testItem(t, database, user.ID, "Early", now.AddDate(0, 0, 1))
	testItem(t, database, user.ID, "Middle", now.AddDate(0, 0, 5))

	items, err := ListItems(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Name != "Early" || items[1].Name != "Middle" || items[2].Name != "Late" {
		t.Errorf("items not sorted by expiry: %q, %q, %q", items[0].Name, items[1].Name, items[2].Name)
	}
}

func TestListItemsScopedToOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	now := time.Now()

	testItem(t, database, alice.ID, "Alice's Milk", now.AddDate(0, 0, 2))
	testItem(t, database, bob.ID, "Bob's Bread", now.AddDate(0, 0, 2))

	items, err := ListItems(ctx, database, alice.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Alice's Milk" {
		t.Errorf("expected only Alice's item, got %+v", items)
	}
}

func TestListExpiringSoonWindow(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := testUser(t, database, "owner@example.com")
	now := time.Now()

	testItem(t, database, user.ID, "Too Soon", now.AddDate(0, 0, 1))
	testItem(t, database, user.ID, "Lower Edge", now.AddDate(0, 0, 3).Add(time.Hour))
	testItem(t, database, user.ID, "Upper Edge", now.AddDate(0, 0, 7).Add(-time.Hour))
	testItem(t, database, user.ID, "Too Far", now.AddDate(0, 0, 8))

	items, err := ListExpiringSoon(ctx, database, user.ID, now)
	if err != nil {
		t.Fatalf("ListExpiringSoon: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items in [now+3d, now+7d], got %d", len(items))
	}
	if items[0].Name != "Lower Edge" || items[1].Name != "Upper Edge" {
		t.Errorf("unexpected items: %q, %q", items[0].Name, items[1].Name)
	}
}

func TestListExpiringWithinJoinsOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	now := time.Now()

	testItem(t, database, alice.ID, "Milk", now.AddDate(0, 0, 1))
	testItem(t, database, alice.ID, "Yogurt", now.AddDate(0, 0, 2).Add(-time.Hour))
	testItem(t, database, bob.ID, "Rice", now.AddDate(0, 0, 10))

	items, err := ListExpiringWithin(ctx, database, now, now.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("ListExpiringWithin: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items in sweep window, got %d", len(items))
	}
	for _, item := range items {
		if item.UserID != alice.ID {
			t.Errorf("expected only alice's items, got item owned by %d", item.UserID)
		}
		if item.OwnerEmail != "alice@example.com" {
			t.Errorf("expected joined owner email, got %q", item.OwnerEmail)
		}
	}
}

func TestUpdateItemOwnedReplacesFields(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := testUser(t, database, "owner@example.com")
	now := time.Now()

	item, err := CreateItem(ctx, database, model.Item{
		UserID:     user.ID,
		Name:       "Milk",
		Type:       model.ItemTypeGrocery,
		Quantity:   1,
		ExpiryDate: now.AddDate(0, 0, 5),
		Notes:      "keep refrigerated",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	// Replace semantics: omitting notes clears them.
	updated, err := UpdateItemOwned(ctx, database, item.ID, user.ID, model.Item{
		Name:       "Oat Milk",
		Type:       model.ItemTypeGrocery,
		Quantity:   3,
		ExpiryDate: now.AddDate(0, 0, 6),
	})
	if err != nil {
		t.Fatalf("UpdateItemOwned: %v", err)
	}
	if updated.Name != "Oat Milk" || updated.Quantity != 3 {
		t.Errorf("fields not replaced: %+v", updated)
	}
	if updated.Notes != "" {
		t.Errorf("expected notes cleared on replace, got %q", updated.Notes)
	}
}

func TestUpdateItemOwnedWrongOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")

	item := testItem(t, database, alice.ID, "Milk", time.Now().AddDate(0, 0, 3))

	_, err := UpdateItemOwned(ctx, database, item.ID, bob.ID, model.Item{
		Name: "Stolen Milk", Type: model.ItemTypeGrocery, Quantity: 1, ExpiryDate: time.Now(),
	})
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	// The record must be untouched after the failed update.
	got, _ := GetItem(ctx, database, item.ID)
	if got.Name != "Milk" {
		t.Errorf("item mutated by non-owner: %+v", got)
	}
}

func TestUpdateItemOwnedMissing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	bob := testUser(t, database, "bob@example.com")

	_, err := UpdateItemOwned(ctx, database, 999, bob.ID, model.Item{
		Name: "Ghost", Type: model.ItemTypeGrocery, Quantity: 1, ExpiryDate: time.Now(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteItemOwned(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")

	item := testItem(t, database, alice.ID, "Milk", time.Now().AddDate(0, 0, 3))

	if err := DeleteItemOwned(ctx, database, item.ID, bob.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner for foreign delete, got %v", err)
	}
	if err := DeleteItemOwned(ctx, database, item.ID, alice.ID); err != nil {
		t.Fatalf("DeleteItemOwned: %v", err)
	}

	// Deletion is permanent.
	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Errorf("expected item gone after delete, got %+v", got)
	}

	if err := DeleteItemOwned(ctx, database, item.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sakif/chronicle/internal/apperror"
	"github.com/sakif/chronicle/internal/model"
)

// createTestEntry persists an entry for the given user and fails the test on
// error.
func createTestEntry(t *testing.T, db *DB, userID, diary string) *model.Entry {
	t.Helper()
	entry := &model.Entry{
		UserID:         userID,
		RawInput:       "raw notes for " + diary,
		GeneratedDiary: diary,
	}
	if err := db.Create(context.Background(), entry); err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}
	return entry
}

func testUser(t *testing.T, db *DB) *model.User {
	t.Helper()
	user, err := db.GetOrCreate(context.Background(), model.DefaultUsername)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestEntryCreate(t *testing.T) {
	db := newTestDB(t)
	user := testUser(t, db)

	entry := &model.Entry{
		UserID:         user.ID,
		RawInput:       "Had coffee with Sam, talked about the move.",
		GeneratedDiary: "**August 31, 2026**\n\nCoffee with Sam.",
	}
	if err := db.Create(context.Background(), entry); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if entry.ID == "" {
		t.Error("Create() did not set entry.ID")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("Create() did not set entry.CreatedAt")
	}
}

func TestEntryCreate_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	user := testUser(t, db)
	ctx := context.Background()

	original := &model.Entry{
		UserID:         user.ID,
		RawInput:       "Had coffee with Sam, talked about the move.",
		GeneratedDiary: "**August 31, 2026**\n\nCoffee with Sam.",
		Metadata:       map[string]string{"mood": "warm"},
	}
	if err := db.Create(ctx, original); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := db.GetByID(ctx, original.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.RawInput != original.RawInput {
		t.Errorf("RawInput = %q, want %q", found.RawInput, original.RawInput)
	}
	if found.GeneratedDiary != original.GeneratedDiary {
		t.Errorf("GeneratedDiary = %q, want %q", found.GeneratedDiary, original.GeneratedDiary)
	}
	if found.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, user.ID)
	}
	if found.Metadata["mood"] != "warm" {
		t.Errorf("Metadata = %v, want mood=warm", found.Metadata)
	}
}

func TestEntryCreate_NilMetadataStoredAsEmpty(t *testing.T) {
	db := newTestDB(t)
	user := testUser(t, db)
	ctx := context.Background()

	entry := createTestEntry(t, db, user.ID, "diary text")

	found, err := db.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Metadata == nil || len(found.Metadata) != 0 {
		t.Errorf("Metadata = %v, want empty map", found.Metadata)
	}
}

func TestEntryGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestListByUser_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := testUser(t, db)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		createTestEntry(t, db, user.ID, fmt.Sprintf("entry %d", i))
	}

	entries, err := db.ListByUser(ctx, user.ID, 0)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].GeneratedDiary != "entry 3" {
		t.Errorf("first entry = %q, want newest (entry 3)", entries[0].GeneratedDiary)
	}
	if entries[2].GeneratedDiary != "entry 1" {
		t.Errorf("last entry = %q, want oldest (entry 1)", entries[2].GeneratedDiary)
	}
}

func TestListByUser_Limit(t *testing.T) {
	db := newTestDB(t)
	user := testUser(t, db)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		createTestEntry(t, db, user.ID, fmt.Sprintf("entry %d", i))
	}

	entries, err := db.ListByUser(ctx, user.ID, 1)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want exactly 1", len(entries))
	}
	if entries[0].GeneratedDiary != "entry 3" {
		t.Errorf("limited list returned %q, want the most recent entry", entries[0].GeneratedDiary)
	}
}

func TestListByUser_ScopedToUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice, _ := db.GetOrCreate(ctx, "alice")
	bob, _ := db.GetOrCreate(ctx, "bob")
	createTestEntry(t, db, alice.ID, "alice's day")
	createTestEntry(t, db, bob.ID, "bob's day")

	entries, err := db.ListByUser(ctx, alice.ID, 0)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}

	if len(entries) != 1 || entries[0].GeneratedDiary != "alice's day" {
		t.Errorf("alice's list = %+v, want only her entry", entries)
	}
}

func TestListByUser_EmptyIsSliceNotNil(t *testing.T) {
	db := newTestDB(t)
	user := testUser(t, db)

	entries, err := db.ListByUser(context.Background(), user.ID, 0)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	// Encodes as [] in JSON, not null.
	if entries == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestEntryDelete(t *testing.T) {
	db := newTestDB(t)
	user := testUser(t, db)
	ctx := context.Background()

	entry := createTestEntry(t, db, user.ID, "to be deleted")

	if err := db.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.GetByID(ctx, entry.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("deleted entry still fetchable: err = %v", err)
	}
}

func TestEntryDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

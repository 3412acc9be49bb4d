package chat

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestStoreRecentOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		if err := store.Append(ctx, 77, Turn{User: fmt.Sprintf("q%d", i), AI: fmt.Sprintf("a%d", i)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := store.Append(ctx, 78, Turn{User: "other", AI: "other"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	turns, err := store.Recent(ctx, 77, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].User != "q2" || turns[2].User != "q4" {
		t.Fatalf("expected oldest-first q2..q4, got %+v", turns)
	}
}

// setupTestStore skips the test when PLANMATE_TEST_DSN is not set.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("PLANMATE_TEST_DSN")
	if dsn == "" {
		t.Skip("PLANMATE_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db, "0001_chat_history.sql"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE chat_history"); err != nil {
		t.Fatalf("truncate chat_history: %v", err)
	}
	return NewStore(db)
}

func applyMigration(ctx context.Context, db *pgxpool.Pool, name string) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		dir = filepath.Dir(dir)
	}
	content, err := os.ReadFile(filepath.Join(dir, "migrations", name))
	if err != nil {
		return err
	}
	var b strings.Builder
	sc := bufio.NewScanner(strings.NewReader(string(content)))
	for sc.Scan() {
		if strings.HasPrefix(strings.TrimSpace(sc.Text()), "--") {
			continue
		}
		b.WriteString(sc.Text())
		b.WriteString("\n")
	}
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt == "" {
			continue
		}
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

package alerts

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Alkran93/Project-BICPV-sub001/internal/migrate"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "alerts.db")
	conn, err := sql.Open("sqlite3", "file:"+dbPath+"?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := migrate.Run(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(conn)
}

func TestRepository_InsertAndRecent(t *testing.T) {
	repo := newTestRepo(t)

	older := Evaluate("1", "Humedad", nil, testNow)
	newer := Evaluate("2", "Velocidad_Viento", fp(33), testNow.Add(time.Minute))
	if err := repo.Insert([]*Alert{older, newer}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
	// Newest first.
	if got[0].ID != newer.ID {
		t.Errorf("Recent()[0].ID = %q; want the newer alert %q", got[0].ID, newer.ID)
	}
	if got[0].Threshold == nil || *got[0].Threshold != 30 {
		t.Errorf("Threshold = %v; want 30", got[0].Threshold)
	}
	if got[1].Value != nil {
		t.Errorf("Value = %v; want nil round-tripped", got[1].Value)
	}
	if !got[1].CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v; want %v", got[1].CreatedAt, testNow)
	}
}

func TestRepository_RecentHonorsLimit(t *testing.T) {
	repo := newTestRepo(t)

	var batch []*Alert
	for i := 0; i < 5; i++ {
		batch = append(batch, Evaluate("1", "Humedad", nil, testNow.Add(time.Duration(i)*time.Second)))
	}
	if err := repo.Insert(batch); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.Recent(3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d; want 3", len(got))
	}
}

func TestRepository_PurgeOlderThan(t *testing.T) {
	repo := newTestRepo(t)

	old := Evaluate("1", "Humedad", nil, testNow.Add(-40*24*time.Hour))
	recent := Evaluate("1", "Humedad", nil, testNow)
	if err := repo.Insert([]*Alert{old, recent}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	n, err := repo.PurgeOlderThan(testNow.Add(-30 * 24 * time.Hour))
	if err != nil {
		t.Fatalf("PurgeOlderThan() error = %v", err)
	}
	if n != 1 {
		t.Errorf("purged = %d; want 1", n)
	}

	got, err := repo.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != recent.ID {
		t.Errorf("remaining = %+v; want only the recent alert", got)
	}
}

func TestRepository_InsertEmptyBatch(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Insert(nil); err != nil {
		t.Errorf("Insert(nil) error = %v; want nil", err)
	}
}

package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitgrid/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "habitgrid.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE habits (id TEXT PRIMARY KEY, name TEXT NOT NULL)`,
		`CREATE TABLE checkins (id TEXT PRIMARY KEY, habit_id TEXT NOT NULL, date TEXT NOT NULL)`,
		`INSERT INTO habits (id, name) VALUES ('h1', 'Read')`,
		`INSERT INTO checkins (id, habit_id, date) VALUES ('c1', 'h1', '2024-03-10')`,
		`INSERT INTO checkins (id, habit_id, date) VALUES ('c2', 'h1', '2024-03-11')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed test database: %v", err)
		}
	}

	return dbPath
}

// steppedClock returns a clock that advances one minute per call.
func steppedClock() func() time.Time {
	current := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func countCheckIns(t *testing.T, dbPath string) int {
	t.Helper()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT count(*) FROM checkins").Scan(&count); err != nil {
		t.Fatalf("failed to count check-ins: %v", err)
	}
	return count
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if filepath.Dir(backupPath) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written to unexpected directory: %s", backupPath)
	}
	if err := VerifyFile(backupPath); err != nil {
		t.Errorf("backup is not a valid database: %v", err)
	}
	if got := countCheckIns(t, backupPath); got != 2 {
		t.Errorf("expected 2 check-ins in backup, got %d", got)
	}
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))

	if _, err := mgr.Create(); err == nil {
		t.Fatal("expected error when database does not exist")
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppedClock()

	for i := 0; i < constants.MaxBackups+5; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}

	for i := 1; i < len(backups); i++ {
		if !backups[i].Timestamp.Before(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
	}

	// The oldest five were pruned
	oldestKept := time.Date(2024, 3, 10, 8, 6, 0, 0, time.UTC)
	if got := backups[len(backups)-1].Timestamp; !got.Equal(oldestKept) {
		t.Errorf("oldest kept backup = %v, want %v", got, oldestKept)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups before the directory exists, got %d", len(backups))
	}

	if _, err := mgr.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, name := range []string{"notes.txt", constants.BackupFilePrefix + "garbage.db", constants.BackupFilePrefix + "20240310-0800-x.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	backups, err = mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if backups[0].Size == 0 || backups[0].Timestamp.IsZero() {
		t.Errorf("backup info incomplete: %+v", backups[0])
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		want    time.Time
		wantSeq int
		ok      bool
	}{
		{"habitgrid-20240310-0815.db", time.Date(2024, 3, 10, 8, 15, 0, 0, time.UTC), 0, true},
		{"habitgrid-20240310-081530.db", time.Date(2024, 3, 10, 8, 15, 30, 0, time.UTC), 0, true},
		{"habitgrid-20240310-081530-3.db", time.Date(2024, 3, 10, 8, 15, 30, 0, time.UTC), 3, true},
		{"habitgrid-20240310.db", time.Time{}, 0, false},
		{"otherapp-20240310-0815.db", time.Time{}, 0, false},
		{"habitgrid-20240310-0815.sqlite", time.Time{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, seq, ok := parseName(tt.name)
			if ok != tt.ok {
				t.Fatalf("parseName ok = %v, want %v", ok, tt.ok)
			}
			if !got.Equal(tt.want) || seq != tt.wantSeq {
				t.Errorf("parseName = %v/%d, want %v/%d", got, seq, tt.want, tt.wantSeq)
			}
		})
	}
}

func TestUniqueFilenames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixed := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return fixed }

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		backupPath, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		name := filepath.Base(backupPath)
		if seen[name] {
			t.Errorf("duplicate backup filename: %s", name)
		}
		seen[name] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 5 {
		t.Errorf("expected 5 backups, got %d", len(backups))
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppedClock()

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec("INSERT INTO checkins (id, habit_id, date) VALUES ('c3', 'h1', '2024-03-12')"); err != nil {
		t.Fatalf("failed to insert check-in: %v", err)
	}
	db.Close()

	if got := countCheckIns(t, dbPath); got != 3 {
		t.Fatalf("expected 3 check-ins before restore, got %d", got)
	}

	safety, err := mgr.Restore(backupPath)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if safety == "" {
		t.Fatal("expected a safety backup of the replaced database")
	}

	if got := countCheckIns(t, dbPath); got != 2 {
		t.Errorf("expected 2 check-ins after restore, got %d", got)
	}
	if got := countCheckIns(t, safety); got != 3 {
		t.Errorf("expected safety backup to hold 3 check-ins, got %d", got)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected 2 backups after restore, got %d", len(backups))
	}
}

func TestRestoreRejectsInvalidBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	garbage := filepath.Join(t.TempDir(), "garbage.db")
	if err := os.WriteFile(garbage, []byte("not a database"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	foreign := filepath.Join(t.TempDir(), "foreign.db")
	db, err := sql.Open("sqlite", foreign)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE other (id INTEGER)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	db.Close()

	for _, path := range []string{garbage, foreign, filepath.Join(t.TempDir(), "missing.db")} {
		if _, err := mgr.Restore(path); err == nil {
			t.Errorf("expected Restore(%s) to fail", filepath.Base(path))
		}
	}

	if got := countCheckIns(t, dbPath); got != 2 {
		t.Errorf("database modified by failed restore: %d check-ins", got)
	}
}

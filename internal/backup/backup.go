package backup

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/daydicated/internal/constants"
	"github.com/julianstephens/daydicated/internal/logger"
)

const (
	stampMinute = "20060102-1504"
	stampSecond = "20060102-150405"
)

// Snapshot describes one backup file on disk
type Snapshot struct {
	Path    string
	Name    string
	Taken   time.Time
	Size    int64
	Ordinal int
}

// SizeLabel renders the file size for listings, e.g. "24 kB"
func (s Snapshot) SizeLabel() string {
	return humanize.Bytes(uint64(s.Size))
}

// AgeLabel renders how long ago the snapshot was taken, e.g. "3 hours ago"
func (s Snapshot) AgeLabel(now time.Time) string {
	return humanize.RelTime(s.Taken, now, "ago", "from now")
}

// Manager creates, lists, rotates and restores snapshots of a SQLite calendar database
type Manager struct {
	dbPath string
	dir    string
	keep   int
	now    func() time.Time
}

// NewManager returns a manager keeping snapshots in a "backups" directory next to dbPath
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:   constants.MaxBackups,
		now:    time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create snapshots the database and prunes the oldest files beyond the retention limit
func (m *Manager) Create(ctx context.Context) (string, error) {
	path, err := m.create(ctx)
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate backups", "dir", m.dir, "error", err)
	}
	return path, nil
}

func (m *Manager) create(ctx context.Context) (string, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dest, err := m.nextPath()
	if err != nil {
		return "", err
	}

	db, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := probe(ctx, db); err != nil {
		return "", fmt.Errorf("database appears to be corrupted: %w", err)
	}
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		logger.Warn("VACUUM INTO failed, copying file instead", "error", err)
		if err := copyFile(m.dbPath, dest); err != nil {
			return "", fmt.Errorf("failed to back up database: %w", err)
		}
	}

	logger.Info("Backup created", "path", dest)
	return dest, nil
}

// nextPath picks a file name that does not exist yet, widening the timestamp
// and then appending an ordinal when several backups land in the same minute.
func (m *Manager) nextPath() (string, error) {
	now := m.now()
	candidates := []string{
		fileName(now.Format(stampMinute), 0),
		fileName(now.Format(stampSecond), 0),
	}
	for i := 1; i <= 100; i++ {
		candidates = append(candidates, fileName(now.Format(stampSecond), i))
	}
	for _, name := range candidates {
		path := filepath.Join(m.dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

func fileName(stamp string, ordinal int) string {
	if ordinal > 0 {
		stamp += "-" + strconv.Itoa(ordinal)
	}
	return constants.BackupFilePrefix + stamp + constants.BackupFileSuffix
}

// parseName recovers the timestamp and ordinal encoded in a backup file name
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	ordinal := 0
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil || n <= 0 {
			return time.Time{}, 0, false
		}
		ordinal = n
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{stampMinute, stampSecond} {
		if t, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return t, ordinal, true
		}
	}
	return time.Time{}, 0, false
}

// List returns the snapshots in the backup directory, newest first
func (m *Manager) List() ([]Snapshot, error) {
	dirEntries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	snapshots := []Snapshot{}
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		taken, ordinal, ok := parseName(de.Name())
		if !ok {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, Snapshot{
			Path:    filepath.Join(m.dir, de.Name()),
			Name:    de.Name(),
			Taken:   taken,
			Size:    info.Size(),
			Ordinal: ordinal,
		})
	}

	slices.SortFunc(snapshots, func(a, b Snapshot) int {
		if c := b.Taken.Compare(a.Taken); c != 0 {
			return c
		}
		return cmp.Compare(b.Ordinal, a.Ordinal)
	})
	return snapshots, nil
}

func (m *Manager) rotate() error {
	snapshots, err := m.List()
	if err != nil {
		return err
	}
	if len(snapshots) <= m.keep {
		return nil
	}
	for _, s := range snapshots[m.keep:] {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", s.Name, err)
		}
		logger.Debug("Removed old backup", "path", s.Path)
	}
	return nil
}

// Resolve maps a user-supplied backup reference to a file on disk. Absolute
// paths are used as is; relative ones are tried against the working
// directory and then the backup directory.
func (m *Manager) Resolve(ref string) (string, error) {
	if filepath.IsAbs(ref) {
		if _, err := os.Stat(ref); err != nil {
			return "", fmt.Errorf("backup file not found: %s", ref)
		}
		return ref, nil
	}
	if _, err := os.Stat(ref); err == nil {
		return filepath.Abs(ref)
	}
	candidate := filepath.Join(m.dir, ref)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", m.dir)
}

// Restore replaces the database with the given snapshot. The current
// database is snapshotted first and is not subject to rotation, so the
// pre-restore copy is never pruned by the restore itself.
func (m *Manager) Restore(ctx context.Context, path string) (string, error) {
	if err := verify(ctx, path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if _, err := os.Stat(m.dbPath); err == nil {
		safety, err = m.create(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to back up current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tmp, "error", rmErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Database restored", "from", path, "safety", safety)
	return safety, nil
}

func verify(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backup file does not exist: %s", path)
	}
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return probe(ctx, db)
}

func probe(ctx context.Context, db *sql.DB) error {
	var n int
	return db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

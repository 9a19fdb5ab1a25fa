// Package archive produces point-in-time snapshots of the record store:
// one timestamped zip per snapshot, containing a JSON dump of every table,
// sufficient to fully reconstruct the store.
package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/models"

	"gorm.io/gorm"
)

// Archiver serializes the full store contents synchronously. Failures are
// logged and returned; callers treat them as warnings, never as workflow
// failures.
type Archiver struct {
	db  *gorm.DB
	dir string
	log *slog.Logger
}

func New(db *gorm.DB, dir string, log *slog.Logger) *Archiver {
	return &Archiver{db: db, dir: dir, log: log}
}

// snapshot is the textual dump written into the archive. Contact fields
// stay in their encrypted-at-rest form.
type snapshot struct {
	Created  time.Time        `json:"created"`
	Users    []models.User    `json:"users"`
	Students []models.Student `json:"students"`
	Payments []models.Payment `json:"payments"`
}

// CreateSnapshot dumps the store into backup_<timestamp>.zip inside the
// backup directory and returns the archive path.
func (a *Archiver) CreateSnapshot() (string, error) {
	data := snapshot{Created: time.Now()}

	if err := a.db.Order("id ASC").Find(&data.Users).Error; err != nil {
		return a.fail(fmt.Errorf("dump users: %w", err))
	}
	if err := a.db.Order("id ASC").Find(&data.Students).Error; err != nil {
		return a.fail(fmt.Errorf("dump students: %w", err))
	}
	if err := a.db.Order("id ASC").Find(&data.Payments).Error; err != nil {
		return a.fail(fmt.Errorf("dump payments: %w", err))
	}

	raw, err := json.MarshalIndent(&data, "", "  ")
	if err != nil {
		return a.fail(fmt.Errorf("marshal snapshot: %w", err))
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return a.fail(fmt.Errorf("create backup dir: %w", err))
	}

	stamp := data.Created.Format("20060102_150405")
	path := filepath.Join(a.dir, fmt.Sprintf("backup_%s.zip", stamp))

	f, err := os.Create(path)
	if err != nil {
		return a.fail(fmt.Errorf("create archive: %w", err))
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	entry, err := zw.Create(fmt.Sprintf("backup_%s.json", stamp))
	if err != nil {
		return a.fail(fmt.Errorf("create archive entry: %w", err))
	}
	if _, err := entry.Write(raw); err != nil {
		return a.fail(fmt.Errorf("write archive entry: %w", err))
	}
	if err := zw.Close(); err != nil {
		return a.fail(fmt.Errorf("finalize archive: %w", err))
	}

	a.log.Info("backup created", "path", path, "students", len(data.Students), "payments", len(data.Payments))
	return path, nil
}

func (a *Archiver) fail(err error) (string, error) {
	a.log.Error("backup failed", "error", err)
	return "", err
}

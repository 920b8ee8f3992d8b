package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/zeebo/blake3"

	"github.com/danmuck/clicktrans/internal/resource"
)

// BackupTimeFormat is unique to the second and safe in file names.
const BackupTimeFormat = "2006-01-02T15-04-05Z"

const maxBackupAttempts = 100

var (
	ErrBackupDigest    = errors.New("engine: backup digest mismatch")
	ErrBackupExhausted = errors.New("engine: no free backup name")
)

// Backups creates at most one backup per physical file per session.
type Backups struct {
	store  resource.Store
	now    func() time.Time
	suffix string
	done   map[string]string
	order  []string
}

func NewBackups(store resource.Store, now func() time.Time, suffix string) *Backups {
	return &Backups{
		store:  store,
		now:    now,
		suffix: suffix,
		done:   make(map[string]string),
	}
}

// Ensure copies path to a timestamped sibling unless this session
// already did. It returns the backup path and whether it was created now.
func (b *Backups) Ensure(path string) (string, bool, error) {
	if existing, ok := b.done[path]; ok {
		return existing, false, nil
	}
	data, err := b.store.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("read original: %w", err)
	}
	want := blake3.Sum256(data)
	base := path + b.suffix + b.now().UTC().Format(BackupTimeFormat)

	for attempt := 0; attempt < maxBackupAttempts; attempt++ {
		name := base
		if attempt > 0 {
			name = base + "-" + strconv.Itoa(attempt)
		}
		err := b.store.CreateExclusive(name, data)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("create backup: %w", err)
		}
		written, err := b.store.ReadFile(name)
		if err != nil {
			return "", false, fmt.Errorf("verify backup: %w", err)
		}
		if blake3.Sum256(written) != want {
			return "", false, fmt.Errorf("%w: %s", ErrBackupDigest, name)
		}
		b.done[path] = name
		b.order = append(b.order, name)
		return name, true, nil
	}
	return "", false, fmt.Errorf("%w: %s", ErrBackupExhausted, base)
}

// Created lists backups made this session in creation order.
func (b *Backups) Created() []string {
	return append([]string(nil), b.order...)
}

package docstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/lib/pq"
)

// Well-known persistence keys. The whole dataset lives under one key, the
// current session record under another.
const (
	DatasetKey = "marketplace_db"
	SessionKey = "marketplace_session"
)

// Persistence stores opaque blobs under well-known keys. Implementations are
// best-effort: the store swallows load failures and keeps running in memory.
type Persistence interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, blob []byte) error
}

// FilePersistence keeps one file per key under a data directory. Writes go
// through a temp file and rename; the mutex keeps two writers from sharing
// the temp path.
type FilePersistence struct {
	mu  sync.Mutex
	dir string
}

func NewFilePersistence(dir string) *FilePersistence {
	return &FilePersistence{dir: dir}
}

func (p *FilePersistence) path(key string) string {
	return filepath.Join(p.dir, key+".json")
}

func (p *FilePersistence) Load(key string) ([]byte, bool, error) {
	blob, err := os.ReadFile(p.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %v", key, err)
	}
	return blob, true, nil
}

func (p *FilePersistence) Save(key string, blob []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %v", err)
	}
	tmp := p.path(key) + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("write %s: %v", key, err)
	}
	if err := os.Rename(tmp, p.path(key)); err != nil {
		return fmt.Errorf("replace %s: %v", key, err)
	}
	return nil
}

// PostgresPersistence keeps blobs in a single key/value table.
type PostgresPersistence struct {
	db *sql.DB
}

func NewPostgresPersistence(db *sql.DB) (*PostgresPersistence, error) {
	query := `
		CREATE TABLE IF NOT EXISTS marketplace_kv (
			key TEXT PRIMARY KEY,
			value BYTEA NOT NULL
		)
	`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("kv table create error: %v", err)
	}
	return &PostgresPersistence{db: db}, nil
}

func (p *PostgresPersistence) Load(key string) ([]byte, bool, error) {
	var blob []byte
	err := p.db.QueryRow(`SELECT value FROM marketplace_kv WHERE key = $1`, key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv load error (%s): %v", key, err)
	}
	return blob, true, nil
}

func (p *PostgresPersistence) Save(key string, blob []byte) error {
	query := `
		INSERT INTO marketplace_kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = $2
	`
	if _, err := p.db.Exec(query, key, blob); err != nil {
		return fmt.Errorf("kv save error (%s): %v", key, err)
	}
	return nil
}

// MemoryPersistence holds blobs for the process lifetime only. It is the
// fallback when no durable medium is configured, and the zero backend for
// tests.
type MemoryPersistence struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{blobs: make(map[string][]byte)}
}

func (p *MemoryPersistence) Load(key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	blob, ok := p.blobs[key]
	return blob, ok, nil
}

func (p *MemoryPersistence) Save(key string, blob []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blobs[key] = blob
	return nil
}

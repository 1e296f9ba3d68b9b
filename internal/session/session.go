// Package session issues stable opaque user identifiers and persists the
// current session record under its well-known key, next to the dataset blob.
package session

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
)

// Record is the persisted identity of the current session.
type Record struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Provider loads and stores the session record. Persistence is best-effort:
// a failed save keeps the record in memory for this process.
type Provider struct {
	persistence docstore.Persistence

	mu      sync.Mutex
	current *Record
}

func NewProvider(persistence docstore.Persistence) *Provider {
	p := &Provider{persistence: persistence}

	blob, ok, err := persistence.Load(docstore.SessionKey)
	if err != nil || !ok {
		return p
	}
	var record Record
	if err := json.Unmarshal(blob, &record); err != nil {
		log.Printf("Session record unparseable, starting signed out: %v", err)
		return p
	}
	if record.UID == "" {
		return p
	}
	p.current = &record
	return p
}

// NewUID issues a stable opaque user identifier.
func (p *Provider) NewUID() string {
	return uuid.New().String()
}

func (p *Provider) SignIn(record Record) error {
	p.mu.Lock()
	p.current = &record
	p.mu.Unlock()

	blob, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("session encode error: %v", err)
	}
	if err := p.persistence.Save(docstore.SessionKey, blob); err != nil {
		return fmt.Errorf("session save error: %v", err)
	}
	return nil
}

func (p *Provider) SignOut() error {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	if err := p.persistence.Save(docstore.SessionKey, []byte("null")); err != nil {
		return fmt.Errorf("session clear error: %v", err)
	}
	return nil
}

func (p *Provider) Current() (Record, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Record{}, false
	}
	return *p.current, true
}

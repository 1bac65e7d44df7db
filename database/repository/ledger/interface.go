package ledger

import (
	"context"
	"time"
)

// Entry is the ledger record for one slot offered to one requester.
type Entry struct {
	Specialty    string `json:"especialidade"`
	Date         string `json:"data"`
	Time         string `json:"hora"`
	RequesterID  string `json:"usuario_id"`
	Practitioner string `json:"medico_nome"`
	Room         string `json:"consultorio"`
	RegisteredAt string `json:"registrado_em"`
}

// Key identifies one (requester, slot) pair. Presence of the key in the
// ledger means the slot was already surfaced to that requester and must not
// be offered again until the entry expires.
type Key struct {
	RequesterID  string
	Specialty    string
	Date         string
	Time         string
	Practitioner string
}

// Ledger is the dedup store consulted by the slot search engine.
type Ledger interface {
	Register(ctx context.Context, entry Entry, ttl time.Duration) error
	AlreadyOffered(ctx context.Context, key Key) (bool, error)
}

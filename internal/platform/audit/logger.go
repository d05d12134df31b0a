package audit

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	ActionSignup      = "user.signup"
	ActionTokenCreate = "token.create"
	ActionTokenDelete = "token.delete"

	listLimit = 100
)

type Entry struct {
	ID         string `db:"id" json:"id"`
	Actor      string `db:"actor" json:"actor"`
	Action     string `db:"action" json:"action"`
	ResourceID string `db:"resource_id" json:"resource_id"`
	Metadata   string `db:"metadata" json:"metadata"`
	IPAddress  string `db:"ip_address" json:"ip_address"`
	UserAgent  string `db:"user_agent" json:"user_agent"`
	CreatedAt  int64  `db:"created_at" json:"created_at"`
}

// Logger records security-relevant account events. Metadata must never
// contain key material.
type Logger struct {
	db *sqlx.DB
}

func NewLogger(db *sqlx.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Record(ctx context.Context, r *http.Request, actor, action, resourceID string, metadata map[string]interface{}) error {
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	entry := Entry{
		ID:         uuid.NewString(),
		Actor:      actor,
		Action:     action,
		ResourceID: resourceID,
		Metadata:   string(metaJSON),
		IPAddress:  "unknown",
		UserAgent:  "unknown",
		CreatedAt:  time.Now().Unix(),
	}
	if r != nil {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			entry.IPAddress = host
		}
		if ua := r.UserAgent(); ua != "" {
			entry.UserAgent = ua
		}
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor, action, resource_id, metadata, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Actor, entry.Action, entry.ResourceID, entry.Metadata, entry.IPAddress, entry.UserAgent, entry.CreatedAt)
	return err
}

// ListByActor returns the most recent entries for actor, newest first.
func (l *Logger) ListByActor(ctx context.Context, actor string) ([]Entry, error) {
	entries := []Entry{}
	err := l.db.SelectContext(ctx, &entries, `
		SELECT id, actor, action, resource_id, metadata, ip_address, user_agent, created_at
		FROM audit_logs WHERE actor = ? ORDER BY created_at DESC, id LIMIT ?
	`, actor, listLimit)
	return entries, err
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"linkshelf/internal/platform/auth"
	"linkshelf/internal/platform/models"
)

// TokenRepository stores API keys by the digest of their long token and
// serves as the resolver's key store.
type TokenRepository struct {
	db *sqlx.DB
}

var _ auth.KeyStore = (*TokenRepository)(nil)

func NewTokenRepository(db *sqlx.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt == 0 {
		token.CreatedAt = time.Now().Unix()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tokens (id, token_hash, name, short_token, user, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, token.ID, token.TokenHash, token.Name, token.ShortToken, token.User, token.CreatedAt)
	return translate(err)
}

func (r *TokenRepository) FindByDigest(ctx context.Context, digest string) (*auth.KeyRecord, error) {
	var token models.Token
	err := r.db.GetContext(ctx, &token,
		`SELECT id, token_hash, name, short_token, user, created_at FROM tokens WHERE token_hash = ?`, digest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.KeyRecord{Owner: token.User, ShortToken: token.ShortToken, Name: token.Name}, nil
}

func (r *TokenRepository) ListByUser(ctx context.Context, owner string) ([]models.Token, error) {
	tokens := []models.Token{}
	err := r.db.SelectContext(ctx, &tokens,
		`SELECT id, token_hash, name, short_token, user, created_at FROM tokens WHERE user = ? ORDER BY created_at DESC, id`, owner)
	return tokens, err
}

// Delete removes the token only when it belongs to owner. It reports
// whether a row was removed.
func (r *TokenRepository) Delete(ctx context.Context, id, owner string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE id = ? AND user = ?`, id, owner)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

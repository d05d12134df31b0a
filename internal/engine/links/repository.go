package links

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, link *Link) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO links (id, url, title, note, user, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, link.ID, link.URL, link.Title, link.Note, link.User, link.CreatedAt)
	return err
}

func (r *Repository) ListByUser(ctx context.Context, owner string) ([]Link, error) {
	links := []Link{}
	err := r.db.SelectContext(ctx, &links, `
		SELECT id, url, title, note, user, created_at
		FROM links
		WHERE user = ?
		ORDER BY created_at DESC, id
	`, owner)
	return links, err
}

func (r *Repository) DeleteByUser(ctx context.Context, owner string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE user = ?`, owner)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

package models

// Owner columns hold the serialized table:record identity of the user,
// e.g. "user:0b6c...".

type User struct {
	ID           string `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	CreatedAt    int64  `db:"created_at" json:"created_at"`
}

// Token is a stored API key. Only the digest of the long token is kept.
type Token struct {
	ID         string `db:"id" json:"id"`
	TokenHash  string `db:"token_hash" json:"-"`
	Name       string `db:"name" json:"name"`
	ShortToken string `db:"short_token" json:"short_token"`
	User       string `db:"user" json:"-"`
	CreatedAt  int64  `db:"created_at" json:"created_at"`
}

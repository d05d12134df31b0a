package links

// Link is a saved bookmark owned by one user.
type Link struct {
	ID        string `db:"id" json:"id"`
	URL       string `db:"url" json:"url"`
	Title     string `db:"title" json:"title"`
	Note      string `db:"note" json:"note"`
	User      string `db:"user" json:"-"`
	CreatedAt int64  `db:"created_at" json:"-"`
}

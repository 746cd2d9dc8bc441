package entities

import "time"

// ApiClient is one issued API credential, scanned from the sqlx path
type ApiClient struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	ApiKey    string    `db:"api_key"`
	Status    bool      `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

package constants

const (
	GetApiClientByKey = `
	SELECT id, name, api_key, status, created_at FROM api_clients WHERE api_key = $1
	`

	InsertApiClient = `
	INSERT INTO api_clients (name, api_key, status) VALUES ($1, $2, true) RETURNING id
	`
)

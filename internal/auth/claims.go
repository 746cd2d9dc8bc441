package auth

// ClientClaims identifies the caller of an API request
type ClientClaims interface {
	ClientID() string
	EntityID() string
	Source() string
}

// APIKeyClaims carries identity resolved from an issued API credential
type APIKeyClaims struct {
	ClientIDValue string
	ClientName    string
	EntityIDValue string
}

func (c *APIKeyClaims) ClientID() string { return c.ClientIDValue }
func (c *APIKeyClaims) EntityID() string { return c.EntityIDValue }
func (c *APIKeyClaims) Source() string   { return "API_KEY" }

// JWTClaims carries identity resolved from an admin bearer token
type JWTClaims struct {
	SubjectValue  string
	EntityIDValue string
}

func (c *JWTClaims) ClientID() string { return c.SubjectValue }
func (c *JWTClaims) EntityID() string { return c.EntityIDValue }
func (c *JWTClaims) Source() string   { return "JWT" }

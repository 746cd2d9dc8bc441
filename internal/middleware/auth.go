package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"unionhall/backoffice/internal/auth"
	"unionhall/backoffice/internal/db/repositories"
)

// AuthMiddleware resolves caller identity from either an API key or an
// admin bearer token. X-Entity-Id scopes the request to one tenant.
func AuthMiddleware(clientsRepo *repositories.ApiClientRepo) func(http.Handler) http.Handler {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			authHeader := r.Header.Get("Authorization")
			apiKey := r.Header.Get("X-API-Key")
			entityID := r.Header.Get("X-Entity-Id")

			var claims auth.ClientClaims

			switch {
			case strings.HasPrefix(authHeader, "Bearer "):
				raw := strings.TrimPrefix(authHeader, "Bearer ")

				token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return jwtSecret, nil
				})
				if err != nil || !token.Valid {
					http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
					return
				}

				subject, err := token.Claims.GetSubject()
				if err != nil || subject == "" {
					http.Error(w, "Unauthorized. Invalid token subject", http.StatusUnauthorized)
					return
				}
				claims = &auth.JWTClaims{
					SubjectValue:  subject,
					EntityIDValue: entityID,
				}

			case apiKey != "":
				client, err := clientsRepo.GetByKey(r.Context(), apiKey)
				if err != nil {
					http.Error(w, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
					return
				}

				if !client.Status {
					http.Error(w, "Unauthorized. Inactive API Key", http.StatusUnauthorized)
					return
				}

				claims = &auth.APIKeyClaims{
					ClientIDValue: client.ID,
					ClientName:    client.Name,
					EntityIDValue: entityID,
				}

			default:
				http.Error(w, "Unauthorized. Missing credentials", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetClientClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"unionhall/backoffice/internal/auth"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func bearerRequest(token string) *http.Request {
	req := httptest.NewRequest("GET", "/api/v1/wizards", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Entity-Id", "local-99")
	return req
}

func runAuth(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, auth.ClientClaims) {
	t.Setenv("JWT_SECRET", testSecret)

	var captured auth.ClientClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = auth.GetClientClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	AuthMiddleware(nil)(next).ServeHTTP(rr, req)
	return rr, captured
}

func TestAuthMiddleware_ValidBearerToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "admin-1"})

	rr, claims := runAuth(t, bearerRequest(token))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if claims == nil {
		t.Fatal("Expected claims in request context")
	}
	if claims.ClientID() != "admin-1" {
		t.Errorf("ClientID = %q, want admin-1", claims.ClientID())
	}
	if claims.EntityID() != "local-99" {
		t.Errorf("EntityID = %q, want local-99", claims.EntityID())
	}
}

func TestAuthMiddleware_MalformedSubjectClaim(t *testing.T) {
	// Non-string sub makes GetSubject fail; the request must not pass
	// through with an empty identity.
	token := signToken(t, jwt.MapClaims{"sub": 12345})

	rr, claims := runAuth(t, bearerRequest(token))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
	if claims != nil {
		t.Error("Expected no claims for a malformed token")
	}
}

func TestAuthMiddleware_MissingSubjectClaim(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"role": "admin"})

	rr, _ := runAuth(t, bearerRequest(token))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_MissingCredentials(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/wizards", nil)

	rr, _ := runAuth(t, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID int64, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(expiresIn).Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

// echoViewer records whether the handler ran and with which viewer.
type echoViewer struct {
	called bool
	userID int64
	hasID  bool
}

func (e *echoViewer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.called = true
		e.userID, e.hasID = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	valid := signToken(t, 7, time.Hour)
	expired := signToken(t, 7, -time.Hour)

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantViewer int64
	}{
		{
			name:       "valid bearer token",
			header:     "Bearer " + valid,
			wantStatus: http.StatusOK,
			wantViewer: 7,
		},
		{
			name:       "valid cookie token",
			cookie:     valid,
			wantStatus: http.StatusOK,
			wantViewer: 7,
		},
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			header:     "Bearer " + expired,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			header:     "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			echo := &echoViewer{}
			handler := AuthMiddleware(testSecret)(echo.handler())

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if !echo.called {
					t.Fatal("handler did not run")
				}
				if !echo.hasID || echo.userID != tt.wantViewer {
					t.Errorf("viewer = %d (%v), want %d", echo.userID, echo.hasID, tt.wantViewer)
				}
			} else if echo.called {
				t.Error("handler must not run for rejected requests")
			}
		})
	}
}

func TestRedirectAuthMiddleware(t *testing.T) {
	t.Run("unauthenticated redirects to login", func(t *testing.T) {
		echo := &echoViewer{}
		handler := RedirectAuthMiddleware(testSecret, "/login")(echo.handler())

		req := httptest.NewRequest(http.MethodGet, "/me/profile", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusPermanentRedirect {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusPermanentRedirect)
		}
		if got := rec.Header().Get("Location"); got != "/login" {
			t.Errorf("Location = %q, want %q", got, "/login")
		}
		if echo.called {
			t.Error("handler must not run when redirecting")
		}
	})

	t.Run("expired session redirects, no error payload", func(t *testing.T) {
		handler := RedirectAuthMiddleware(testSecret, "/login")((&echoViewer{}).handler())

		req := httptest.NewRequest(http.MethodGet, "/me/profile", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, 7, -time.Hour)})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusPermanentRedirect {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusPermanentRedirect)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("redirect carried a body: %q", rec.Body.String())
		}
	})

	t.Run("authenticated passes through", func(t *testing.T) {
		echo := &echoViewer{}
		handler := RedirectAuthMiddleware(testSecret, "/login")(echo.handler())

		req := httptest.NewRequest(http.MethodGet, "/me/profile", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, 7, time.Hour)})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !echo.called || echo.userID != 7 {
			t.Errorf("viewer = %d, want 7", echo.userID)
		}
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	t.Run("anonymous passes through without viewer", func(t *testing.T) {
		echo := &echoViewer{}
		handler := OptionalAuthMiddleware(testSecret)(echo.handler())

		req := httptest.NewRequest(http.MethodGet, "/users/alice/posts", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if echo.hasID {
			t.Error("anonymous request must not carry a viewer id")
		}
	})

	t.Run("bad token degrades to anonymous", func(t *testing.T) {
		echo := &echoViewer{}
		handler := OptionalAuthMiddleware(testSecret)(echo.handler())

		req := httptest.NewRequest(http.MethodGet, "/users/alice/posts", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if echo.hasID {
			t.Error("invalid token must degrade to anonymous, not error")
		}
	})

	t.Run("valid token resolves viewer", func(t *testing.T) {
		echo := &echoViewer{}
		handler := OptionalAuthMiddleware(testSecret)(echo.handler())

		req := httptest.NewRequest(http.MethodGet, "/users/alice/posts", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, 42, time.Hour))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !echo.hasID || echo.userID != 42 {
			t.Errorf("viewer = %d (%v), want 42", echo.userID, echo.hasID)
		}
	})
}

package sarvcrm

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a client pointed at a mock server.
func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL:  server.URL,
		UType:    "testco",
		Username: "apiuser",
		Password: "secret",
	}, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

// newAuthedClient builds a client already holding a session token, for
// exercising operations without a login round trip.
func newAuthedClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	client := newTestClient(t, handler, opts...)
	client.token = "test-token"
	return client
}

// writeData responds with a success envelope.
func writeData(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": v}))
}

// writeAPIError responds with an error envelope.
func writeAPIError(t *testing.T, w http.ResponseWriter, status int, message string) {
	t.Helper()
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"message": message}))
}

// loginOK answers a Login request with the given token.
func loginOK(t *testing.T, w http.ResponseWriter, token string) {
	t.Helper()
	writeData(t, w, map[string]string{"token": token})
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestNew(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid config",
			cfg:  Config{UType: "testco", Username: "apiuser", Password: "secret"},
		},
		{
			name:    "missing utype",
			cfg:     Config{Username: "apiuser", Password: "secret"},
			wantErr: "utype is required",
		},
		{
			name:    "missing credentials",
			cfg:     Config{UType: "testco", Username: "apiuser"},
			wantErr: "username and password are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg, logger)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultBaseURL, client.baseURL)
			assert.Equal(t, DefaultFrontendURL, client.frontendURL)
			assert.Equal(t, "en_US", client.language)
			assert.False(t, client.Authenticated())
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	sum := md5.Sum([]byte("secret"))
	hashed := hex.EncodeToString(sum[:])

	tests := []struct {
		name       string
		cfg        Config
		wantOnWire string
	}{
		{
			name:       "plaintext is hashed",
			cfg:        Config{UType: "t", Username: "u", Password: "secret"},
			wantOnWire: hashed,
		},
		{
			name:       "pre-hashed is sent verbatim",
			cfg:        Config{UType: "t", Username: "u", Password: hashed, PasswordIsMD5: true},
			wantOnWire: hashed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sent string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body := decodeBody(t, r)
				sent, _ = body["password"].(string)
				loginOK(t, w, "tok")
			}))
			defer server.Close()

			tt.cfg.BaseURL = server.URL
			client, err := New(tt.cfg, zerolog.Nop())
			require.NoError(t, err)

			_, err = client.Login(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantOnWire, sent)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("success stores token", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Login", r.URL.Query().Get("method"))
			assert.Empty(t, r.Header.Get("Authorization"))

			body := decodeBody(t, r)
			assert.Equal(t, "testco", body["utype"])
			assert.Equal(t, "apiuser", body["user_name"])
			assert.Equal(t, "en_US", body["language"])
			assert.NotContains(t, body, "login_type")

			loginOK(t, w, "session-token")
		}))

		token, err := client.Login(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "session-token", token)
		assert.True(t, client.Authenticated())
		assert.Equal(t, "session-token", client.Token())
	})

	t.Run("rejected credentials", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(t, w, http.StatusUnauthorized, "Invalid credentials")
		}))

		_, err := client.Login(context.Background())
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Contains(t, authErr.Message, "Invalid credentials")
		assert.False(t, client.Authenticated())
	})

	t.Run("unreachable instance", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client, err := New(Config{
			BaseURL:  server.URL,
			UType:    "testco",
			Username: "apiuser",
			Password: "secret",
		}, zerolog.Nop())
		require.NoError(t, err)

		_, err = client.Login(context.Background())
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		var transportErr *TransportError
		assert.ErrorAs(t, err, &transportErr)
	})

	t.Run("response without token", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeData(t, w, map[string]string{})
		}))

		_, err := client.Login(context.Background())
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Contains(t, authErr.Message, "no token")
	})
}

func TestTokenReuse(t *testing.T) {
	var logins int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("method") {
		case "Login":
			logins++
			loginOK(t, w, "tok-1")
		case "Retrieve":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			writeData(t, w, []Record{})
		default:
			t.Errorf("unexpected method %q", r.URL.Query().Get("method"))
		}
	}))

	ctx := context.Background()
	_, err := client.Login(ctx)
	require.NoError(t, err)

	_, err = client.Accounts.List(ctx, ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, logins, "read after login must not re-authenticate")
}

func TestLogout(t *testing.T) {
	t.Run("clears token and notifies remote", func(t *testing.T) {
		var logouts int
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("method") {
			case "Login":
				loginOK(t, w, "tok")
			case "Logout":
				logouts++
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				writeData(t, w, map[string]any{})
			}
		}))

		ctx := context.Background()
		_, err := client.Login(ctx)
		require.NoError(t, err)

		require.NoError(t, client.Logout(ctx))
		assert.False(t, client.Authenticated())
		assert.Equal(t, 1, logouts)
	})

	t.Run("clears token even when remote fails", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("method") == "Login" {
				loginOK(t, w, "tok")
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		}))

		ctx := context.Background()
		_, err := client.Login(ctx)
		require.NoError(t, err)

		require.NoError(t, client.Logout(ctx))
		assert.False(t, client.Authenticated())
	})

	t.Run("no-op when unauthenticated", func(t *testing.T) {
		var requests int
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))

		require.NoError(t, client.Logout(context.Background()))
		assert.Zero(t, requests)
	})
}

func TestWithSession(t *testing.T) {
	t.Run("logs in, runs fn, logs out", func(t *testing.T) {
		var logins, logouts int
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("method") {
			case "Login":
				logins++
				loginOK(t, w, "tok")
			case "Logout":
				logouts++
				writeData(t, w, map[string]any{})
			}
		}))

		var sawToken string
		err := client.WithSession(context.Background(), func(ctx context.Context) error {
			sawToken = client.Token()
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "tok", sawToken)
		assert.Equal(t, 1, logins)
		assert.Equal(t, 1, logouts)
		assert.False(t, client.Authenticated())
	})

	t.Run("logout happens exactly once when fn fails", func(t *testing.T) {
		var logouts int
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("method") {
			case "Login":
				loginOK(t, w, "tok")
			case "Logout":
				logouts++
				writeData(t, w, map[string]any{})
			}
		}))

		wantErr := errors.New("boom")
		err := client.WithSession(context.Background(), func(ctx context.Context) error {
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 1, logouts)
		assert.False(t, client.Authenticated())
	})

	t.Run("login failure aborts before fn runs", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(t, w, http.StatusUnauthorized, "Invalid credentials")
		}))

		ran := false
		err := client.WithSession(context.Background(), func(ctx context.Context) error {
			ran = true
			return nil
		})
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.False(t, ran)
	})
}

func TestDoErrorMapping(t *testing.T) {
	t.Run("application error", func(t *testing.T) {
		client := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(t, w, http.StatusBadRequest, "required field missing: name")
		}))

		_, err := client.Accounts.Create(context.Background(), Record{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "required field missing: name", apiErr.Message)
	})

	t.Run("server error is transport", func(t *testing.T) {
		client := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		_, err := client.Accounts.List(context.Background(), ListOptions{})
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
	})

	t.Run("malformed envelope is transport", func(t *testing.T) {
		client := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>gateway timeout</html>"))
		}))

		_, err := client.Accounts.List(context.Background(), ListOptions{})
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
	})

	t.Run("error without message", func(t *testing.T) {
		client := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("{}"))
		}))

		_, err := client.Accounts.List(context.Background(), ListOptions{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Unknown error", apiErr.Message)
	})
}

func TestUnauthenticatedCallRejected(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	_, err := client.Accounts.List(context.Background(), ListOptions{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, requests, "no request should leave the client without a token")
}

func TestModuleLookup(t *testing.T) {
	client := newTestClient(t, http.NewServeMux())

	mod, err := client.Module("Accounts")
	require.NoError(t, err)
	assert.Same(t, client.Accounts, mod)

	_, err = client.Module("Nope")
	assert.ErrorIs(t, err, ErrUnknownModule)

	assert.Len(t, client.Modules(), len(moduleDescriptors))
	assert.Equal(t, "Accounts", client.Modules()[0].Name())
}

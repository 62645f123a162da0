package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/habedi/mscli/client"
	"github.com/stretchr/testify/require"
)

// gateway fakes the services behind the gateway for command tests.
type gateway struct {
	mu        sync.Mutex
	issued    string // token handed out by login
	valid     string
	expired   map[string]bool
	forbidden map[string]bool

	refreshCalls atomic.Int64
	logoutCalls  atomic.Int64
	deleted      []string
}

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": "ADMIN",
		"iat":  time.Now().Unix(),
		"exp":  exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func newGateway(t *testing.T) *gateway {
	tok := signedToken(t, "admin@shop.io", time.Now().Add(time.Hour))
	return &gateway{issued: tok, valid: tok, expired: map[string]bool{}, forbidden: map[string]bool{}}
}

// expireIssued makes the login token expire and lets refresh hand out next.
func (g *gateway) expireIssued(next string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expired[g.issued] = true
	g.valid = next
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (g *gateway) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		g.mu.Lock()
		valid, expired, forbidden := g.valid, g.expired[token], g.forbidden[r.URL.Path]
		g.mu.Unlock()
		switch {
		case token == "":
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Full authentication is required"})
		case expired:
			reply(w, http.StatusUnauthorized, map[string]string{"message": client.ExpiredTokenMessage})
		case token != valid:
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
		case forbidden:
			reply(w, http.StatusForbidden, map[string]string{"message": "Access Denied"})
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (g *gateway) router() http.Handler {
	r := chi.NewRouter()
	r.Route("/AUTH-SERVICE/api/auth", func(r chi.Router) {
		r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
			var in struct{ Email, Password string }
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in.Password != "Secret123" {
				reply(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
				return
			}
			reply(w, http.StatusOK, map[string]any{
				"accessToken": g.issued, "refreshToken": "R1", "expiresIn": 900,
				"role": "ADMIN", "userId": "1", "email": in.Email,
			})
		})
		r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
			g.refreshCalls.Add(1)
			g.mu.Lock()
			next := g.valid
			g.mu.Unlock()
			reply(w, http.StatusOK, map[string]any{"accessToken": next, "refreshToken": "R1"})
		})
		r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
			g.logoutCalls.Add(1)
			reply(w, http.StatusOK, map[string]string{"message": "Logged out"})
		})
		r.Post("/register", func(w http.ResponseWriter, r *http.Request) {
			reply(w, http.StatusCreated, map[string]string{"message": "User registered successfully", "userId": "2"})
		})
	})

	r.Route("/CUSTOMER-SERVICE/api/customers", func(r chi.Router) {
		r.Use(g.guard)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			reply(w, http.StatusOK, []client.Customer{{ID: 1, FullName: "Ada Lovelace", Phone: "555-0100"}})
		})
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			reply(w, http.StatusOK, client.CustomerStats{TotalCustomers: 12, ActiveCustomers: 9, ActivePercentage: 75})
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if id == "404" {
				reply(w, http.StatusNotFound, map[string]string{"message": "Customer not found"})
				return
			}
			g.mu.Lock()
			g.deleted = append(g.deleted, id)
			g.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.Route("/INVENTORY-SERVICE/api/products", func(r chi.Router) {
		r.Use(g.guard)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			reply(w, http.StatusOK, []client.Product{{ID: 1, Name: "Keyboard", Price: 25, Quantity: 4}})
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var p client.Product
			_ = json.NewDecoder(r.Body).Decode(&p)
			p.ID = 31
			reply(w, http.StatusCreated, p)
		})
	})

	r.Route("/BILLING-SERVICE/api/bills", func(r chi.Router) {
		r.Use(g.guard)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			reply(w, http.StatusOK, map[string]any{
				"success": true,
				"data": []map[string]any{
					{"id": 1, "billingDate": "2024-03-01T10:15:00", "customerName": "Ada Lovelace", "itemCount": 1, "totalAmount": 50.0},
					{"id": 2, "billingDate": "2024-03-02T11:00:00", "customerName": "Ada Lovelace", "itemCount": 2, "totalAmount": 70.0},
				},
			})
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var in client.CreateBill
			_ = json.NewDecoder(r.Body).Decode(&in)
			reply(w, http.StatusCreated, map[string]any{
				"success": true,
				"data":    map[string]any{"id": 8, "customerId": in.CustomerID, "totalAmount": 25.0 * float64(len(in.ProductItems))},
			})
		})
	})
	return r
}

// harness runs each command on a fresh root command. The options, and with
// them the opened app and its session, are shared between invocations.
type harness struct {
	t      *testing.T
	gw     *gateway
	server *httptest.Server
	opts   *rootOptions
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gw := newGateway(t)
	srv := httptest.NewServer(gw.router())
	t.Cleanup(srv.Close)

	h := &harness{t: t, gw: gw, server: srv, opts: &rootOptions{}, out: new(bytes.Buffer), errOut: new(bytes.Buffer)}
	t.Cleanup(h.opts.close)
	return h
}

// exec runs args with stdin and returns stdout.
func (h *harness) exec(stdin string, args ...string) (string, error) {
	h.t.Helper()
	h.out.Reset()
	h.errOut.Reset()
	root := createRootCmd(h.opts)
	root.SetOut(h.out)
	root.SetErr(h.errOut)
	root.SetIn(strings.NewReader(stdin))
	base := []string{
		"--config", filepath.Join(h.t.TempDir(), "absent.yaml"),
		"--gateway", h.server.URL,
		"--store", "memory",
	}
	root.SetArgs(append(base, args...))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return h.out.String(), err
}

func (h *harness) login() {
	h.t.Helper()
	_, err := h.exec("Secret123\n", "login", "--email", "admin@shop.io")
	require.NoError(h.t, err)
}

package client_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/habedi/mscli/auth"
	"github.com/habedi/mscli/client"
	"github.com/habedi/mscli/db"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	authBase     = "/AUTH-SERVICE/api/auth"
	customerBase = "/CUSTOMER-SERVICE/api/customers"
	productBase  = "/INVENTORY-SERVICE/api/products"
	billBase     = "/BILLING-SERVICE/api/bills"
)

type seenRequest struct {
	Path  string
	Token string
	Body  string
}

// backend fakes the gateway and its services. It accepts exactly one access
// token and answers known expired tokens with the expiry marker.
type backend struct {
	mu      sync.Mutex
	valid   string
	expired map[string]bool
	seen    []seenRequest

	refreshTo    string
	refreshFail  bool
	refreshGate  chan struct{}
	refreshCalls atomic.Int64
	logoutCalls  atomic.Int64

	// holdPath parks the first request to that path carrying holdToken until
	// holdRelease is closed; holdArrived is signalled when it is parked.
	holdPath    string
	holdToken   string
	holdRelease chan struct{}
	holdArrived chan struct{}

	// forced answers a path with a fixed status and message.
	forced map[string]forcedReply
}

type forcedReply struct {
	status  int
	message string
}

func newBackend() *backend {
	return &backend{
		valid:     "T2",
		expired:   map[string]bool{"T1": true},
		refreshTo: "T2",
		forced:    map[string]forcedReply{},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func (b *backend) seenWith(token string) []seenRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []seenRequest
	for _, s := range b.seen {
		if s.Token == token {
			out = append(out, s)
		}
	}
	return out
}

func (b *backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearer(r)
		raw, _ := io.ReadAll(r.Body)
		body := string(raw)

		b.mu.Lock()
		b.seen = append(b.seen, seenRequest{Path: r.URL.Path, Token: token, Body: body})
		hold := b.holdRelease
		if hold != nil && r.URL.Path == b.holdPath && token == b.holdToken {
			b.holdRelease = nil
		} else {
			hold = nil
		}
		forced, isForced := b.forced[r.URL.Path]
		b.mu.Unlock()

		if hold != nil {
			close(b.holdArrived)
			<-hold
		}

		b.mu.Lock()
		valid, expired := b.valid, b.expired[token]
		b.mu.Unlock()

		switch {
		case isForced:
			writeJSON(w, forced.status, map[string]string{"message": forced.message})
		case token != "" && token == valid:
			r.Body = io.NopCloser(strings.NewReader(body))
			next.ServeHTTP(w, r)
		case expired:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": client.ExpiredTokenMessage})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		}
	})
}

func (b *backend) router() http.Handler {
	r := chi.NewRouter()
	r.Route(authBase, func(r chi.Router) {
		r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.seen = append(b.seen, seenRequest{Path: r.URL.Path, Token: bearer(r)})
			b.mu.Unlock()
			var in struct{ Email, Password string }
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in.Password != "Secret123" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"accessToken": "T1", "refreshToken": "R1", "expiresIn": 900,
				"role": "USER", "userId": "7", "email": in.Email,
			})
		})
		r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
			b.refreshCalls.Add(1)
			if b.refreshGate != nil {
				<-b.refreshGate
			}
			var in struct {
				RefreshToken string `json:"refreshToken"`
			}
			_ = json.NewDecoder(r.Body).Decode(&in)
			if b.refreshFail || in.RefreshToken != "R1" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Refresh token expired"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"accessToken": b.refreshTo, "refreshToken": "R1", "role": "USER", "userId": "7", "email": "a@b.com",
			})
		})
		r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
			b.logoutCalls.Add(1)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
		})
		r.Post("/register", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully", "userId": "42"})
		})
	})

	r.Route(customerBase, func(r chi.Router) {
		r.Use(b.authenticate)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []client.Customer{{ID: 1, FullName: "Ada"}, {ID: 2, FullName: "Alan"}})
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var c client.Customer
			if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.FullName == "" {
				writeJSON(w, http.StatusBadRequest, map[string]any{"errors": map[string]string{"fullName": "must not be blank"}})
				return
			}
			c.ID = 99
			writeJSON(w, http.StatusCreated, c)
		})
		r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			page, _ := strconv.Atoi(q.Get("page"))
			size, _ := strconv.Atoi(q.Get("size"))
			writeJSON(w, http.StatusOK, client.Page[client.Customer]{
				Content:    []client.Customer{{ID: 1, FullName: q.Get("keyword")}},
				TotalPages: 3, TotalElements: 21, Number: page, Size: size,
			})
		})
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, client.CustomerStats{TotalCustomers: 10, ActiveCustomers: 8, ActivePercentage: 80})
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if id == 404 {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "Customer not found"})
				return
			}
			writeJSON(w, http.StatusOK, client.Customer{ID: id, FullName: "Customer " + chi.URLParam(r, "id")})
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.Route(productBase, func(r chi.Router) {
		r.Use(b.authenticate)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []client.Product{{ID: 1, Name: "Laptop", Price: 999.5, Quantity: 3}})
		})
	})

	r.Route(billBase, func(r chi.Router) {
		r.Use(b.authenticate)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    []map[string]any{{"id": 5, "billingDate": "2024-03-01T10:15:00", "customerName": "Ada", "itemCount": 2, "totalAmount": 120.0}},
			})
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Bill not ready"})
		})
	})
	return r
}

type recordingNavigator struct {
	mu            sync.Mutex
	login         int
	notAuthorized int
}

func (n *recordingNavigator) ToLogin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.login++
}

func (n *recordingNavigator) ToNotAuthorized() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notAuthorized++
}

func (n *recordingNavigator) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.login, n.notAuthorized
}

// stack is a fully wired client against a fake backend.
type stack struct {
	backend   *backend
	server    *httptest.Server
	store     *auth.MemoryStore
	nav       *recordingNavigator
	coord     *auth.Coordinator
	gate      *auth.Gate
	metrics   *client.Metrics
	handler   client.Handler
	customers *client.Customers
	products  *client.Products
	bills     *client.Bills
}

func newStack(t *testing.T, b *backend) *stack {
	t.Helper()
	srv := httptest.NewServer(b.router())
	t.Cleanup(srv.Close)

	s := &stack{backend: b, server: srv, store: auth.NewMemoryStore(), nav: &recordingNavigator{}}
	raw := client.Chain(client.Transport(srv.Client()), client.RequestID())
	api := client.NewAuthAPI(srv.URL+authBase, raw)
	s.coord = auth.NewCoordinator(api, s.store, s.nav)
	s.metrics = client.NewMetrics(prometheus.NewRegistry())
	s.gate = auth.NewGate(s.coord.Refresh, s.coord.AccessToken, auth.WithRefreshHook(s.metrics.ObserveRefresh))
	icpt := client.NewInterceptor(s.coord, s.gate, s.nav, s.metrics)
	s.handler = client.Chain(client.Transport(srv.Client()),
		client.RequestID(), client.Logging(), s.metrics.Instrument(), icpt.Middleware())
	s.customers = client.NewCustomers(client.NewClient(srv.URL+customerBase, s.handler))
	s.products = client.NewProducts(client.NewClient(srv.URL+productBase, s.handler))
	s.bills = client.NewBills(client.NewClient(srv.URL+billBase, s.handler))
	return s
}

func (s *stack) signIn(token string) {
	s.store.Save(db.Session{AccessToken: token, RefreshToken: "R1", Role: "USER", UserID: "7", Email: "a@b.com"})
}

// Package fakeapi serves an in-process fake of the POS REST API for tests.
// Tokens are HS256 JWTs carrying the caller's impersonation level.
package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Password is accepted for every seeded user.
	Password = "secret"
	tokenTTL = time.Hour
)

// Partner is a seeded partner.
type Partner struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

// Store is a seeded store.
type Store struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	IsActive  bool   `json:"is_active"`
	IsDefault bool   `json:"is_default"`
	Partner   int64  `json:"partner"`
}

// User is a seeded user.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	IsSuperAdmin bool   `json:"is_super_admin"`
	PartnerID    int64  `json:"-"`
	StoreID      int64  `json:"-"`
	DefaultStore int64  `json:"-"`
}

// Request is one recorded authenticated request.
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Body      map[string]any
	UserID    int64
	PartnerID int64
	StoreID   int64
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Kind      string `json:"kind"`
	PartnerID int64  `json:"imp_partner,omitempty"`
	StoreID   int64  `json:"imp_store,omitempty"`
}

type failure struct {
	method, path string
	status       int
	body         string
}

// Server is the fake API.
type Server struct {
	*httptest.Server

	secret []byte

	mu                  sync.Mutex
	users               map[string]*User
	partners            map[int64]Partner
	stores              map[int64]Store
	revoked             map[string]bool
	forgotten           map[string]bool
	failures            []failure
	requests            []Request
	exitStoreWithTokens bool
	listEnvelope        bool
}

// New starts a fake API seeded with DefaultFixtures and closes it at test end.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:              []byte("fakeapi-" + uuid.NewString()),
		users:               make(map[string]*User),
		partners:            make(map[int64]Partner),
		stores:              make(map[int64]Store),
		revoked:             make(map[string]bool),
		forgotten:           make(map[string]bool),
		exitStoreWithTokens: true,
		listEnvelope:        true,
	}
	s.seed()
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root, including the /api prefix.
func (s *Server) BaseURL() string { return s.URL + "/api" }

func (s *Server) seed() {
	for _, p := range []Partner{
		{ID: 42, Name: "Acme", Code: "ACME", IsActive: true},
		{ID: 43, Name: "Dormant", Code: "DORM", IsActive: false},
		{ID: 9, Name: "Own Co", Code: "OWN", IsActive: true},
	} {
		s.partners[p.ID] = p
	}
	for _, st := range []Store{
		{ID: 7, Name: "Downtown", Code: "DT", IsActive: true, Partner: 42},
		{ID: 8, Name: "Uptown", Code: "UT", IsActive: true, Partner: 42},
		{ID: 11, Name: "Main", Code: "MAIN", IsActive: true, Partner: 9},
		{ID: 12, Name: "Branch", Code: "BR", IsActive: true, Partner: 9},
		{ID: 3, Name: "Kiosk", Code: "KSK", IsActive: true, Partner: 9},
		{ID: 13, Name: "Closed", Code: "CLS", IsActive: false, Partner: 9},
	} {
		s.stores[st.ID] = st
	}
	for _, u := range []*User{
		{ID: 1, Username: "root", Role: "ADMIN", IsSuperAdmin: true, FirstName: "Root"},
		{ID: 2, Username: "owner", Role: "ADMIN", PartnerID: 9, DefaultStore: 12, FirstName: "Olive", LastName: "Owner"},
		{ID: 3, Username: "clerk", Role: "STORE_ADMIN", PartnerID: 9, StoreID: 3},
		{ID: 4, Username: "cash", Role: "CASHIER", PartnerID: 9, StoreID: 3},
		{ID: 5, Username: "viewer", Role: "VIEWER", PartnerID: 9},
		{ID: 6, Username: "empty", Role: "ADMIN", PartnerID: 43},
	} {
		u.Email = u.Username + "@example.com"
		s.users[u.Username] = u
	}
}

// FailNext makes the next matching request fail with status and a raw body.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, path: path, status: status, body: body})
}

// RevokeAll invalidates every token issued so far.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked["*"] = true
}

// ForgetImpersonation makes the server report no impersonation for tokens
// issued so far, as if impersonation expired server side.
func (s *Server) ForgetImpersonation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgotten["*"] = true
}

// SetExitStoreReturnsTokens controls whether exit-store sends a fresh pair.
func (s *Server) SetExitStoreReturnsTokens(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exitStoreWithTokens = v
}

// SetListEnvelope switches list endpoints between {"results": [...]} and a bare array.
func (s *Server) SetListEnvelope(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listEnvelope = v
}

// Requests returns recorded authenticated requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// LastRequest returns the last recorded request for path.
func (s *Server) LastRequest(path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Path == path {
			return s.requests[i], true
		}
	}
	return Request{}, false
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.injectFailures)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login/", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Post("/auth/logout/", s.handleLogout)
			r.Get("/auth/impersonation-status/", s.handleStatus)
			r.Post("/auth/impersonate/{partnerID}/", s.handleImpersonatePartner)
			r.Post("/auth/exit-impersonation/", s.handleExitPartner)
			r.Post("/auth/impersonate/{partnerID}/store/{storeID}/", s.handleImpersonateStore)
			r.Post("/auth/exit-store-impersonation/", s.handleExitStore)
			r.Get("/auth/partners/", s.handlePartners)
			r.Get("/stores/", s.handleStores)
			r.Get("/inventory/products/", s.handleProducts)
			r.Get("/inventory/products/barcode/{barcode}/", s.handleBarcode)
			r.Get("/sales/", s.handleEmptyList)
			r.Post("/sales/", s.handleCreateSale)
			r.Get("/stock/transactions/", s.handleEmptyList)
			r.Post("/stock/adjust/", s.handleAdjust)
			r.Get("/expenses/", s.handleEmptyList)
			r.Get("/dashboard/stats/", s.handleStats)
			r.Get("/dashboard/reports/{reportType}/", s.handleReport)
		})
	})
	return r
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		idx := slices.IndexFunc(s.failures, func(f failure) bool {
			return f.method == r.Method && "/api"+f.path == r.URL.Path
		})
		var f failure
		if idx >= 0 {
			f = s.failures[idx]
			s.failures = slices.Delete(s.failures, idx, idx+1)
		}
		s.mu.Unlock()

		if idx < 0 {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
	})
}

type ctxKey struct{}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		claims, err := s.parse(raw)
		if err != nil || claims.Kind != "access" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}

		rec := Request{
			Method:    r.Method,
			Path:      strings.TrimPrefix(r.URL.Path, "/api"),
			Query:     r.URL.Query(),
			PartnerID: claims.PartnerID,
			StoreID:   claims.StoreID,
		}
		rec.UserID, _ = strconv.ParseInt(claims.Subject, 10, 64)
		if r.Body != nil && r.ContentLength != 0 {
			var body map[string]any
			if json.NewDecoder(r.Body).Decode(&body) == nil {
				rec.Body = body
			}
		}
		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
	})
}

func (s *Server) parse(raw string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked["*"] || s.revoked[claims.ID] {
		return nil, errors.New("token revoked")
	}
	if s.forgotten["*"] {
		claims.PartnerID, claims.StoreID = 0, 0
	}
	return claims, nil
}

func (s *Server) issue(userID, partnerID, storeID int64) map[string]any {
	now := time.Now()
	sign := func(kind string) string {
		c := tokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   strconv.FormatInt(userID, 10),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			},
			Kind:      kind,
			PartnerID: partnerID,
			StoreID:   storeID,
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
		if err != nil {
			panic(err)
		}
		return tok
	}
	return map[string]any{
		"access_token":  sign("access"),
		"refresh_token": sign("refresh"),
		"expires_in":    int(tokenTTL.Seconds()),
		"token_type":    "Bearer",
	}
}

func (s *Server) userByID(id int64) *User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Server) caller(r *http.Request) (*tokenClaims, *User) {
	claims, _ := r.Context().Value(ctxKey{}).(*tokenClaims)
	id, _ := strconv.ParseInt(claims.Subject, 10, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	return claims, s.userByID(id)
}

// effectivePartner is the partner the caller's token acts for.
func effectivePartner(c *tokenClaims, u *User) int64 {
	if c.PartnerID != 0 {
		return c.PartnerID
	}
	return u.PartnerID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id
}

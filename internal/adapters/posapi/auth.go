package posapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/target/pos-console/internal/domain/auth"
	apperrors "github.com/target/pos-console/internal/errors"
	"github.com/target/pos-console/internal/ports"
)

var _ ports.AuthAPI = (*Client)(nil)

// Fallback messages used when the API gives no reason.
const (
	msgInvalidLogin = "Invalid username or password"
)

type partnerDTO struct {
	ID       int64  `json:"id"   validate:"gt=0"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive *bool  `json:"is_active"`
}

func (p *partnerDTO) toDomain() *domainauth.PartnerRef {
	if p == nil {
		return nil
	}
	return &domainauth.PartnerRef{ID: p.ID, Name: p.Name, Code: p.Code, IsActive: p.IsActive == nil || *p.IsActive}
}

type storeDTO struct {
	ID        int64  `json:"id"   validate:"gt=0"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	IsActive  *bool  `json:"is_active"`
	IsDefault bool   `json:"is_default"`
	Partner   int64  `json:"partner"`
}

func (s *storeDTO) toDomain() *domainauth.StoreRef {
	if s == nil {
		return nil
	}
	return &domainauth.StoreRef{
		ID:        s.ID,
		Name:      s.Name,
		Code:      s.Code,
		IsActive:  s.IsActive == nil || *s.IsActive,
		IsDefault: s.IsDefault,
		PartnerID: s.Partner,
	}
}

type userDTO struct {
	ID            int64       `json:"id"             validate:"gt=0"`
	Username      string      `json:"username"       validate:"required"`
	Email         string      `json:"email"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	Role          string      `json:"role"           validate:"required"`
	IsSuperAdmin  bool        `json:"is_super_admin"`
	Partner       *partnerDTO `json:"partner"`
	AssignedStore *storeDTO   `json:"assigned_store"`
	DefaultStore  *storeDTO   `json:"default_store"`
}

func (u userDTO) toDomain() (domainauth.Principal, error) {
	role, err := domainauth.ParseRole(u.Role, u.IsSuperAdmin)
	if err != nil {
		return domainauth.Principal{}, err
	}
	return domainauth.Principal{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          role,
		Partner:       u.Partner.toDomain(),
		AssignedStore: u.AssignedStore.toDomain(),
		DefaultStore:  u.DefaultStore.toDomain(),
	}, nil
}

type tokenDTO struct {
	AccessToken  string `json:"access_token"  validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

func (t tokenDTO) toDomain(now time.Time) domainauth.CredentialPair {
	return domainauth.CredentialPair{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresAt:    tokenExpiry(t.AccessToken, t.ExpiresIn, now),
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	tokenDTO
	User *userDTO `json:"user" validate:"required"`
}

type partnerImpersonationResponse struct {
	tokenDTO
	Impersonating *partnerDTO `json:"impersonating" validate:"required"`
}

type storeImpersonationResponse struct {
	tokenDTO
	ImpersonatingStore *storeDTO `json:"impersonating_store" validate:"required"`
}

type exitStoreResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

type statusResponse struct {
	IsImpersonatingPartner bool        `json:"is_impersonating_partner"`
	Partner                *partnerDTO `json:"partner"`
	IsImpersonatingStore   bool        `json:"is_impersonating_store"`
	Store                  *storeDTO   `json:"store"`
}

// Login calls POST /auth/login/. A rejected login carries the server's reason.
func (c *Client) Login(ctx context.Context, username, password string) (ports.LoginResult, error) {
	in := loginRequest{Username: strings.TrimSpace(username), Password: password}
	if err := c.validate.Struct(in); err != nil {
		return ports.LoginResult{}, apperrors.Validation("Username and password are required")
	}

	var out loginResponse
	err := c.doJSON(ctx, c.hc, request{
		method:    http.MethodPost,
		path:      "/auth/login/",
		body:      in,
		anonymous: true,
		fallback: func(status int) string {
			if status == http.StatusBadRequest || status == http.StatusUnauthorized {
				return msgInvalidLogin
			}
			return ""
		},
	}, &out)
	if err != nil {
		return ports.LoginResult{}, err
	}
	if err := c.validateResponse("login", out); err != nil {
		return ports.LoginResult{}, err
	}

	principal, err := out.User.toDomain()
	if err != nil {
		return ports.LoginResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "login response has an unknown role")
	}
	return ports.LoginResult{Credentials: out.tokenDTO.toDomain(c.now()), Principal: principal}, nil
}

// Logout calls POST /auth/logout/ and ignores the body.
func (c *Client) Logout(ctx context.Context, creds domainauth.CredentialPair) error {
	body := map[string]string{"refresh_token": creds.RefreshToken}
	_, err := c.do(ctx, c.hc, request{
		method:    http.MethodPost,
		path:      "/auth/logout/",
		body:      body,
		creds:     credsPtr(creds),
		anonymous: true,
	})
	return err
}

// ImpersonationStatus calls GET /auth/impersonation-status/.
func (c *Client) ImpersonationStatus(
	ctx context.Context,
	creds domainauth.CredentialPair,
) (ports.ImpersonationStatus, error) {
	var out statusResponse
	err := c.doJSON(ctx, c.hc, request{
		method: http.MethodGet,
		path:   "/auth/impersonation-status/",
		creds:  credsPtr(creds),
	}, &out)
	if err != nil {
		return ports.ImpersonationStatus{}, err
	}
	return ports.ImpersonationStatus{
		ImpersonatingPartner: out.IsImpersonatingPartner,
		Partner:              out.Partner.toDomain(),
		ImpersonatingStore:   out.IsImpersonatingStore,
		Store:                out.Store.toDomain(),
	}, nil
}

// ImpersonatePartner calls POST /auth/impersonate/{partnerId}/.
func (c *Client) ImpersonatePartner(
	ctx context.Context,
	creds domainauth.CredentialPair,
	partnerID int64,
) (ports.PartnerGrant, error) {
	if partnerID <= 0 {
		return ports.PartnerGrant{}, apperrors.ValidationField("partner_id", "partner id must be positive")
	}
	var out partnerImpersonationResponse
	err := c.doJSON(ctx, c.hc, request{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/auth/impersonate/%d/", partnerID),
		creds:    credsPtr(creds),
		fallback: partnerFallback,
	}, &out)
	if err != nil {
		return ports.PartnerGrant{}, err
	}
	if err := c.validateResponse("partner impersonation", out); err != nil {
		return ports.PartnerGrant{}, err
	}
	return ports.PartnerGrant{
		Credentials: out.tokenDTO.toDomain(c.now()),
		Partner:     *out.Impersonating.toDomain(),
	}, nil
}

// ExitPartner calls POST /auth/exit-impersonation/.
func (c *Client) ExitPartner(ctx context.Context, creds domainauth.CredentialPair) error {
	_, err := c.do(ctx, c.hc, request{
		method: http.MethodPost,
		path:   "/auth/exit-impersonation/",
		creds:  credsPtr(creds),
	})
	return err
}

// ImpersonateStore calls POST /auth/impersonate/{partnerId}/store/{storeId}/.
func (c *Client) ImpersonateStore(
	ctx context.Context,
	creds domainauth.CredentialPair,
	partnerID, storeID int64,
) (ports.StoreGrant, error) {
	if partnerID <= 0 || storeID <= 0 {
		return ports.StoreGrant{}, apperrors.Validation("partner and store ids must be positive")
	}
	var out storeImpersonationResponse
	err := c.doJSON(ctx, c.hc, request{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/auth/impersonate/%d/store/%d/", partnerID, storeID),
		creds:    credsPtr(creds),
		fallback: storeFallback,
	}, &out)
	if err != nil {
		return ports.StoreGrant{}, err
	}
	if err := c.validateResponse("store impersonation", out); err != nil {
		return ports.StoreGrant{}, err
	}
	store := *out.ImpersonatingStore.toDomain()
	if store.PartnerID == 0 {
		store.PartnerID = partnerID
	}
	return ports.StoreGrant{Credentials: out.tokenDTO.toDomain(c.now()), Store: store}, nil
}

// ExitStore calls POST /auth/exit-store-impersonation/. A returned pair is
// only used when both tokens are present.
func (c *Client) ExitStore(ctx context.Context, creds domainauth.CredentialPair) (*domainauth.CredentialPair, error) {
	var out exitStoreResponse
	err := c.doJSON(ctx, c.hc, request{
		method: http.MethodPost,
		path:   "/auth/exit-store-impersonation/",
		creds:  credsPtr(creds),
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		return nil, nil
	}
	pair := tokenDTO(out).toDomain(c.now())
	return &pair, nil
}

func (c *Client) validateResponse(what string, v any) error {
	if err := c.validate.Struct(v); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "malformed %s response", what)
	}
	return nil
}

func partnerFallback(status int) string {
	switch status {
	case http.StatusForbidden:
		return "You do not have permission to impersonate this partner"
	case http.StatusNotFound:
		return "Partner not found"
	case http.StatusBadRequest:
		return "Cannot impersonate this partner (may be inactive)"
	default:
		return ""
	}
}

func storeFallback(status int) string {
	switch status {
	case http.StatusForbidden:
		return "You do not have permission to impersonate this store"
	case http.StatusNotFound:
		return "Store not found"
	case http.StatusBadRequest:
		return "Cannot impersonate this store (may be inactive or belong to another partner)"
	default:
		return ""
	}
}

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/EmpoweredVote/blog-backend/internal/access"
	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/token"
	"github.com/EmpoweredVote/blog-backend/internal/utils"
)

const bearerPrefix = "Bearer "

// UserFetcher resolves the user id embedded in a token.
// It returns models.ErrNotFound when no such user exists.
type UserFetcher interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type TokenDecoder interface {
	Decode(tok string) (token.Claims, error)
}

type AuthErrorKind int

const (
	MissingOrMalformedHeader AuthErrorKind = iota + 1
	MalformedToken
	UnknownUser
	InternalFault
)

func (k AuthErrorKind) String() string {
	switch k {
	case MissingOrMalformedHeader:
		return "missing_or_malformed_header"
	case MalformedToken:
		return "malformed_token"
	case UnknownUser:
		return "unknown_user"
	case InternalFault:
		return "internal_fault"
	default:
		return "unknown"
	}
}

type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// StatusCode maps the failure kind to its HTTP status.
func (e *AuthError) StatusCode() int {
	if e.Kind == InternalFault {
		return http.StatusInternalServerError
	}
	return http.StatusUnauthorized
}

// Message is what the client sees. The 401 kinds share one message so the
// response does not reveal which check failed.
func (e *AuthError) Message() string {
	if e.Kind == InternalFault {
		return "Internal server error"
	}
	return "Unauthorized"
}

type Authenticator struct {
	Classifier *access.Classifier
	Decoder    TokenDecoder
	Fetcher    UserFetcher
}

// Resolve runs the header, token and identity checks for one request.
// The returned user has its password cleared.
func (a *Authenticator) Resolve(r *http.Request) (*models.User, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, bearerPrefix) {
		return nil, &AuthError{Kind: MissingOrMalformedHeader}
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	if raw == "" {
		return nil, &AuthError{Kind: MissingOrMalformedHeader}
	}

	claims, err := a.Decoder.Decode(raw)
	if err != nil {
		return nil, &AuthError{Kind: MalformedToken, Err: err}
	}

	user, err := a.Fetcher.FindByID(r.Context(), claims.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &AuthError{Kind: UnknownUser, Err: err}
	}
	if err != nil {
		return nil, &AuthError{Kind: InternalFault, Err: err}
	}
	if user == nil {
		return nil, &AuthError{Kind: UnknownUser}
	}

	clean := user.Sanitized()
	return &clean, nil
}

// Middleware gates every request. Public and non-API paths pass through
// untouched; everything else must carry a valid bearer token.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Classifier.IsPublic(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.Resolve(r)
		if err != nil {
			RejectAuth(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUser(r.Context(), user)))
	})
}

// AuthMiddleware builds the global request gate.
func AuthMiddleware(classifier *access.Classifier, decoder TokenDecoder, fetcher UserFetcher) func(http.Handler) http.Handler {
	a := &Authenticator{Classifier: classifier, Decoder: decoder, Fetcher: fetcher}
	return a.Middleware
}

// RejectAuth logs an authentication failure and writes the error envelope.
// The raw token is never logged.
func RejectAuth(w http.ResponseWriter, r *http.Request, err error) {
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		authErr = &AuthError{Kind: InternalFault, Err: err}
	}
	log.Printf("auth rejected: method=%s path=%s kind=%s err=%v", r.Method, r.URL.Path, authErr.Kind, authErr.Err)
	utils.WriteError(w, authErr.StatusCode(), authErr.Message())
}

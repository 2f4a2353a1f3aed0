package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingHeader is returned where a credential is required but none was sent.
	ErrMissingHeader = errors.New("authorization header not found")
	// ErrMalformedHeader means the header is not "<scheme> <token>".
	ErrMalformedHeader = errors.New("malformed header")
	// ErrInvalidToken covers undecodable tokens and bad signatures.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken means the token verified but its exp has passed.
	ErrExpiredToken = errors.New("expired token")
	// ErrForbidden means a valid credential for a different identity.
	ErrForbidden = errors.New("forbidden")
)

// Status tags an Outcome.
type Status int

const (
	Unauthenticated Status = iota
	Authenticated
	Rejected
)

func (s Status) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// Claim is the identity recovered from a verified token. It lives for one request.
type Claim struct {
	Email  string
	Expiry time.Time
}

// Outcome is the result of verifying an Authorization header. Claim is set
// only when Authenticated, Reason only when Rejected.
type Outcome struct {
	Status Status
	Claim  Claim
	Reason error
}

// Verifier checks bearer tokens against the shared secret.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
	now    func() time.Time
}

// NewVerifier returns a Verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		// exp is in milliseconds, which the library would read as seconds,
		// so expiry is checked by Verify instead.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
			jwt.WithoutClaimsValidation(),
			jwt.WithJSONNumber(),
		),
		now: time.Now,
	}
}

// FromRequest verifies the Authorization header of r. A request without the
// header is Unauthenticated; an empty header is malformed.
func (v *Verifier) FromRequest(r *http.Request) Outcome {
	values := r.Header.Values("Authorization")
	if len(values) == 0 {
		return v.Verify("", false)
	}
	return v.Verify(values[0], true)
}

// Verify classifies an Authorization header value.
func (v *Verifier) Verify(header string, present bool) Outcome {
	if !present {
		return Outcome{Status: Unauthenticated}
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 {
		return reject(ErrMalformedHeader)
	}

	claims := jwt.MapClaims{}
	token, err := v.parser.ParseWithClaims(parts[1], claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return reject(ErrInvalidToken)
	}

	email, ok := claims["email"].(string)
	if !ok {
		return reject(ErrInvalidToken)
	}
	expiry, ok := expiryMillis(claims["exp"])
	if !ok {
		return reject(ErrInvalidToken)
	}
	if expiry.Before(v.now()) {
		return reject(ErrExpiredToken)
	}

	return Outcome{Status: Authenticated, Claim: Claim{Email: email, Expiry: expiry}}
}

func reject(reason error) Outcome {
	return Outcome{Status: Rejected, Reason: reason}
}

func expiryMillis(raw any) (time.Time, bool) {
	switch exp := raw.(type) {
	case json.Number:
		if ms, err := exp.Int64(); err == nil {
			return time.UnixMilli(ms), true
		}
		if f, err := exp.Float64(); err == nil {
			return time.UnixMilli(int64(f)), true
		}
	case float64:
		return time.UnixMilli(int64(exp)), true
	}
	return time.Time{}, false
}

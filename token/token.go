// Package token mints and verifies the signed session tokens. A token
// embeds a point-in-time snapshot of the user's role and permission names;
// later role edits are not reflected until the user signs in again.
package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/models"
)

// Snapshot is the request-scoped principal view decoded from a verified
// token. Role is "" for roleless users; Permissions is never nil.
type Snapshot struct {
	UserID      uint
	Email       string
	Role        string
	Permissions []string
}

// HasRole reports whether the snapshot's role is one of names.
func (s *Snapshot) HasRole(names ...string) bool {
	for _, name := range names {
		if s.Role == name {
			return true
		}
	}
	return false
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue mints an access token embedding the user's current role name and
// permission names.
func (i *Issuer) Issue(u *models.User) (string, error) {
	var role interface{}
	if u.Role != nil {
		role = u.Role.Name
	}

	claims := jwt.MapClaims{
		"sub":         u.ID,
		"email":       u.Email,
		"role":        role,
		"permissions": u.PermissionNames(),
		"exp":         time.Now().Add(i.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// IssueRefresh mints a longer-lived token carrying only the identity; a
// fresh access token is snapshotted from the database on redemption.
func (i *Issuer) IssueRefresh(u *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"exp":   time.Now().Add(i.refreshTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks signature and expiry and decodes the embedded snapshot.
func (i *Issuer) Verify(tokenString string) (*Snapshot, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperr.Unauthenticated("Invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthenticated("Invalid token claims")
	}
	return SnapshotFromClaims(claims)
}

// SnapshotFromClaims builds the request snapshot out of verified claims.
// Tokens minted before permissions were embedded fall back to an empty
// set rather than failing.
func SnapshotFromClaims(claims jwt.MapClaims) (*Snapshot, error) {
	userID, err := subjectID(claims)
	if err != nil {
		return nil, apperr.Unauthenticated("Invalid token claims")
	}

	snap := &Snapshot{
		UserID:      userID,
		Permissions: []string{},
	}
	if email, ok := claims["email"].(string); ok {
		snap.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		snap.Role = role
	}
	if raw, ok := claims["permissions"].([]interface{}); ok {
		for _, p := range raw {
			if name, ok := p.(string); ok {
				snap.Permissions = append(snap.Permissions, name)
			}
		}
	}
	return snap, nil
}

// subjectID tolerates the shapes "sub" takes after a JSON round trip.
func subjectID(claims jwt.MapClaims) (uint, error) {
	switch v := claims["sub"].(type) {
	case float64:
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse subject: %v", err)
		}
		return uint(parsed), nil
	case uint:
		return v, nil
	case int:
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported subject type: %T", v)
	}
}

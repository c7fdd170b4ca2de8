package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKeyIdentity struct{}

// Identity is the authenticated caller as described by the access token.
type Identity struct {
	UserID   string
	Email    string
	Username string
	Avatar   string

	// ExpiresAt is the token's exp claim.
	ExpiresAt time.Time
}

// SessionCookie carries the access token for browser clients.
const SessionCookie = "access_token"

// SupabaseVerifier checks Supabase access tokens. HS256 tokens are verified
// with Secret; RS256 tokens with the static PEM/JWKS key or keys fetched from
// JWKSURL.
type SupabaseVerifier struct {
	Secret             string
	PublicKeyPEMOrJWKS string
	JWKSURL            string
	Audience           string
	Issuer             string

	parseOnce sync.Once
	parsedKey *rsa.PublicKey
	parseErr  error
	cache     jwksCache
}

func (v *SupabaseVerifier) staticKey() (*rsa.PublicKey, error) {
	v.parseOnce.Do(func() {
		str := strings.TrimSpace(v.PublicKeyPEMOrJWKS)
		if str == "" {
			return
		}
		// JWKS document: the first key is the static fallback
		if strings.HasPrefix(str, "{") {
			var set jwks
			if err := json.Unmarshal([]byte(str), &set); err != nil {
				v.parseErr = err
				return
			}
			if len(set.Keys) == 0 {
				v.parseErr = errors.New("jwks empty")
				return
			}
			v.parsedKey, v.parseErr = decodeJWKToRSA(set.Keys[0])
			return
		}
		v.parsedKey, v.parseErr = jwt.ParseRSAPublicKeyFromPEM([]byte(str))
	})
	return v.parsedKey, v.parseErr
}

func (v *SupabaseVerifier) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if v.Secret == "" {
			return nil, errors.New("hmac tokens not accepted")
		}
		return []byte(v.Secret), nil
	case *jwt.SigningMethodRSA:
	default:
		return nil, fmt.Errorf("unexpected method: %v", token.Header["alg"])
	}

	if k, err := v.staticKey(); err == nil && k != nil {
		return k, nil
	}
	if v.JWKSURL == "" {
		return nil, errors.New("no verification key")
	}
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("token has no kid")
	}
	return v.cache.resolve(v.JWKSURL, kid)
}

// Verify parses a raw access token into the caller's identity.
func (v *SupabaseVerifier) Verify(raw string) (Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "RS256"}), jwt.WithExpirationRequired()}
	if v.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.Audience))
	}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, v.keyFunc, opts...)
	if err != nil {
		return Identity{}, err
	}
	if !parsed.Valid {
		return Identity{}, errors.New("invalid token")
	}
	return identityFromClaims(claims)
}

func identityFromClaims(claims jwt.MapClaims) (Identity, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, errors.New("token has no subject")
	}
	id := Identity{UserID: sub}
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		id.ExpiresAt = exp.Time
	}
	id.Email, _ = claims["email"].(string)
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		for _, k := range []string{"username", "preferred_username", "user_name"} {
			if s, _ := meta[k].(string); s != "" {
				id.Username = s
				break
			}
		}
		id.Avatar, _ = meta["avatar_url"].(string)
	}
	return id, nil
}

// tokenFromRequest reads a bearer token, falling back to the access_token
// cookie set for browser sessions.
func tokenFromRequest(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if len(authz) > 7 && strings.EqualFold(authz[:7], "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (v *SupabaseVerifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := tokenFromRequest(r)
		if tok == "" {
			unauthorized(w)
			return
		}
		id, err := v.Verify(tok)
		if err != nil {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": http.StatusUnauthorized, "message": "authentication required"})
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity{}).(Identity)
	return id, ok
}

func UserID(ctx context.Context) string {
	id, _ := FromContext(ctx)
	return id.UserID
}

package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"
)

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// jwksCache holds RSA keys by kid and refreshes from the JWKS endpoint when
// a token names a kid it has not seen.
type jwksCache struct {
	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey
}

var jwksClient = &http.Client{Timeout: 5 * time.Second}

const maxJWKSBody = 1 << 20

func (c *jwksCache) resolve(url, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	k, ok := c.keys[kid]
	c.mu.RUnlock()
	if ok {
		return k, nil
	}
	set, err := fetchJWKS(url)
	if err != nil {
		return nil, err
	}
	fresh := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, j := range set.Keys {
		if j.Kid == "" || (j.Use != "" && j.Use != "sig") {
			continue
		}
		if pk, err := decodeJWKToRSA(j); err == nil {
			fresh[j.Kid] = pk
		}
	}
	c.mu.Lock()
	c.keys = fresh
	c.mu.Unlock()
	if k, ok := fresh[kid]; ok {
		return k, nil
	}
	return nil, fmt.Errorf("unknown kid %q", kid)
}

func fetchJWKS(url string) (*jwks, error) {
	res, err := jwksClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("jwks fetch: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks fetch: status %d", res.StatusCode)
	}
	var set jwks
	if err := json.NewDecoder(io.LimitReader(res.Body, maxJWKSBody)).Decode(&set); err != nil {
		return nil, fmt.Errorf("jwks decode: %w", err)
	}
	return &set, nil
}

func decodeJWKToRSA(j jwk) (*rsa.PublicKey, error) {
	if j.Kty != "RSA" {
		return nil, fmt.Errorf("jwk %q: unsupported key type %q", j.Kid, j.Kty)
	}
	n, err := base64Int(j.N)
	if err != nil {
		return nil, fmt.Errorf("jwk %q modulus: %w", j.Kid, err)
	}
	e, err := base64Int(j.E)
	if err != nil {
		return nil, fmt.Errorf("jwk %q exponent: %w", j.Kid, err)
	}
	if !e.IsInt64() || e.Int64() < 3 || e.Int64() > 1<<31-1 {
		return nil, fmt.Errorf("jwk %q: exponent out of range", j.Kid)
	}
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

// base64Int decodes an unsigned big-endian integer in base64url, padded or not.
func base64Int(s string) (*big.Int, error) {
	s = strings.TrimRight(s, "=")
	if s == "" {
		return nil, errors.New("empty value")
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

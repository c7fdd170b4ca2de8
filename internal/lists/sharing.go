package lists

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yourname/reelshelf/internal/models"
)

const (
	shareTokenBytes    = 16
	shareTokenAttempts = 3

	// SharedListPath is the client route a share link points to.
	SharedListPath = "/shared-list/"
)

// Share is returned when a share link is minted.
type Share struct {
	ShareToken string `json:"shareToken"`
	ShareURL   string `json:"shareUrl"`
}

// Gateway mints share tokens and resolves them for anonymous readers. It is
// the only path by which a list becomes visible to someone other than its
// owner.
type Gateway struct {
	lists  *Service
	random io.Reader
}

type GatewayOption func(*Gateway)

// WithRandom replaces crypto/rand as the token entropy source.
func WithRandom(r io.Reader) GatewayOption {
	return func(g *Gateway) { g.random = r }
}

func NewGateway(svc *Service, opts ...GatewayOption) *Gateway {
	g := &Gateway{lists: svc, random: rand.Reader}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Gateway) newToken() (string, error) {
	b := make([]byte, shareTokenBytes)
	if _, err := io.ReadFull(g.random, b); err != nil {
		return "", fmt.Errorf("read token entropy: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateShareToken assigns a fresh token to the list and makes it public.
// Any previous token stops working. baseURL is the scheme and host the share
// URL is built on.
func (g *Gateway) GenerateShareToken(ctx context.Context, ownerID, listID, baseURL string) (*Share, error) {
	l, err := g.lists.findOwnedOrNotFound(ctx, listID, ownerID)
	if err != nil {
		return nil, err
	}
	for attempt := 1; ; attempt++ {
		token, err := g.newToken()
		if err != nil {
			return nil, err
		}
		l.ShareToken = &token
		l.IsPublic = true
		l.UpdatedAt = g.lists.now()

		err = g.lists.store.SaveListFields(ctx, l)
		switch {
		case err == nil:
			return &Share{ShareToken: token, ShareURL: ShareURL(baseURL, token)}, nil
		case errors.Is(err, models.ErrNotFound):
			return nil, notFound(msgListNotFound)
		case errors.Is(err, models.ErrDuplicate) && attempt < shareTokenAttempts:
			g.lists.log.Warn().Str("list", listID).Int("attempt", attempt).Msg("share token collision, retrying")
			continue
		default:
			return nil, fmt.Errorf("save share token for %s: %w", listID, err)
		}
	}
}

// ResolveSharedList returns the public list behind token together with the
// owner's username. Unknown tokens and lists made private since sharing are
// both reported as not found.
func (g *Gateway) ResolveSharedList(ctx context.Context, token string) (*models.SharedList, error) {
	if token == "" {
		return nil, notFound(msgSharedNotFound)
	}
	l, err := g.lists.store.FindSharedList(ctx, token)
	if errors.Is(err, models.ErrNotFound) {
		return nil, notFound(msgSharedNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find shared list: %w", err)
	}
	normalize(l)

	out := &models.SharedList{List: *l}
	u, err := g.lists.store.GetUser(ctx, l.OwnerID)
	switch {
	case err == nil:
		out.Owner.Username = u.Username
	case errors.Is(err, models.ErrNotFound):
		g.lists.log.Warn().Str("list", l.ID).Msg("shared list owner has no profile")
	default:
		return nil, fmt.Errorf("load shared list owner: %w", err)
	}
	return out, nil
}

// ShareURL joins baseURL and the shared-list client route for token.
func ShareURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + SharedListPath + token
}

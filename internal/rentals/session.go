package rentals

import (
	"context"
	"errors"
	"log"
	"strings"

	"renthub/internal/models"
)

// Session identifies who is acting and in which role. It is resolved once
// per request and passed by value into every operation.
type Session struct {
	UserID string
	Role   models.Role
}

func (s Session) require(role models.Role) error {
	if s.UserID == "" {
		return ForbiddenError{Reason: "no active session"}
	}
	if s.Role != role {
		return ForbiddenError{Reason: "only a " + string(role) + " can do this"}
	}
	return nil
}

// RoleCache remembers resolved roles. Roles never change once assigned.
type RoleCache interface {
	GetRole(ctx context.Context, userID string) (models.Role, bool)
	SetRole(ctx context.Context, userID string, role models.Role)
}

type nopRoleCache struct{}

func (nopRoleCache) GetRole(context.Context, string) (models.Role, bool) { return "", false }
func (nopRoleCache) SetRole(context.Context, string, models.Role)        {}

type SessionResolver struct {
	users UserStore
	cache RoleCache
}

// NewSessionResolver builds a resolver; cache may be nil.
func NewSessionResolver(users UserStore, cache RoleCache) *SessionResolver {
	if cache == nil {
		cache = nopRoleCache{}
	}
	return &SessionResolver{users: users, cache: cache}
}

// Resolve turns an authenticated identity into a Session.
func (r *SessionResolver) Resolve(ctx context.Context, userID string) (Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Session{}, NotFoundError{Kind: "user", ID: userID}
	}

	if role, ok := r.cache.GetRole(ctx, userID); ok {
		return Session{UserID: userID, Role: role}, nil
	}

	profile, err := r.users.GetUser(ctx, userID)
	if errors.Is(err, ErrNoDocument) {
		return Session{}, NotFoundError{Kind: "user", ID: userID}
	}
	if err != nil {
		log.Println("[SESSION] [ERROR] profile lookup failed:", err)
		return Session{}, remote("resolve session", err)
	}

	if !profile.Role.Valid() {
		log.Printf("[SESSION] [ERROR] user %s has unknown role %q", userID, profile.Role)
		return Session{}, ForbiddenError{Reason: "unknown role"}
	}

	r.cache.SetRole(ctx, userID, profile.Role)
	return Session{UserID: userID, Role: profile.Role}, nil
}

// Profile returns the acting user's profile.
func (r *SessionResolver) Profile(ctx context.Context, s Session) (models.UserProfile, error) {
	profile, err := r.users.GetUser(ctx, s.UserID)
	if errors.Is(err, ErrNoDocument) {
		return models.UserProfile{}, NotFoundError{Kind: "user", ID: s.UserID}
	}
	if err != nil {
		return models.UserProfile{}, remote("get profile", err)
	}
	return profile, nil
}

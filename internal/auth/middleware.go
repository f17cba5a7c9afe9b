package auth

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/minifigstore/api/internal/user"
	"github.com/minifigstore/api/internal/utils"
)

type ctxKey string

const userCtxKey ctxKey = "currentUser"

// CurrentUser returns the identity the gate attached to the request.
func CurrentUser(r *http.Request) (user.SafeUser, bool) {
	u, ok := r.Context().Value(userCtxKey).(user.SafeUser)
	return u, ok
}

// Middleware is the authentication gate. Access-token verification is
// stateless on the common path; only on failure does it pay for a DB-backed
// refresh check, which also re-validates liveness and revocation state.
type Middleware struct {
	DB     *gorm.DB
	Codec  *Codec
	Issuer *Issuer
	Users  user.Repository
}

func NewMiddleware(db *gorm.DB, codec *Codec, issuer *Issuer) *Middleware {
	return &Middleware{
		DB:     db,
		Codec:  codec,
		Issuer: issuer,
		Users:  issuer.Users,
	}
}

func extractAccessToken(r *http.Request) string {
	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// Authenticate validates the access token, transparently renewing the pair
// through the refresh token when it no longer verifies, and attaches the
// resolved identity to the request.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractAccessToken(r)
		if token == "" {
			utils.RespondError(w, http.StatusUnauthorized, "Access token is required", "Please sign in to continue.")
			return
		}

		var u *user.User
		userID, err := m.Codec.VerifyAccess(token)
		if err == nil {
			u, err = m.Users.FindByID(m.DB, userID)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "User not found", "The user associated with this token no longer exists. Please sign in again.")
				return
			}
		} else {
			var ok bool
			u, ok = m.renewSession(w, r)
			if !ok {
				return
			}
		}

		if !u.IsActive {
			utils.RespondError(w, http.StatusForbidden, "Your account has been deactivated", "Your account has been deactivated. Please contact support for assistance.")
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user.ToSafeUser(u))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// renewSession is the silent-renewal transition: it verifies the refresh
// cookie against the stored copy and rotates the pair on success. Mutates
// state despite living in what looks like a read path. On any rejection the
// response has already been written.
func (m *Middleware) renewSession(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	c, err := r.Cookie(RefreshCookie)
	if err != nil || c.Value == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired access token", "Your session has expired or the token is invalid. Please sign in again.")
		return nil, false
	}
	presented := c.Value

	userID, err := m.Codec.VerifyRefresh(presented)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token", "Your session has expired. Please sign in again.")
		return nil, false
	}

	u, err := m.Users.FindByID(m.DB, userID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "User not found or inactive", "Your account is not available. Please sign in again.")
		return nil, false
	}
	if !u.IsActive {
		utils.RespondError(w, http.StatusForbidden, "Account deactivated", "Your account has been deactivated. Please contact support to reactivate it.")
		return nil, false
	}

	// A verifiable refresh token that is not the stored one is a reuse
	// signal: revoke before rejecting.
	if u.RefreshToken == nil || *u.RefreshToken != presented {
		if err := m.Users.ClearRefreshToken(m.DB, u.ID); err != nil {
			log.Printf("failed to revoke refresh token for user %d: %v", u.ID, err)
		}
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token", "Your session is invalid. Please sign in again.")
		return nil, false
	}

	if u.RefreshTokenExpiry == nil || u.RefreshTokenExpiry.Before(time.Now()) {
		if err := m.Users.ClearRefreshToken(m.DB, u.ID); err != nil {
			log.Printf("failed to clear expired refresh token for user %d: %v", u.ID, err)
		}
		m.Issuer.ClearAuthCookies(w)
		utils.RespondError(w, http.StatusUnauthorized, "Session expired", "Your session has expired. Please sign in again.")
		return nil, false
	}

	if _, _, err := m.Issuer.Rotate(m.DB, w, u.ID); err != nil {
		log.Printf("failed to rotate session for user %d: %v", u.ID, err)
		utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token", "Your session has expired. Please sign in again.")
		return nil, false
	}

	return u, true
}

// OptionalAuth attaches the identity when a valid access token is present
// but never rejects; no silent renewal on this path.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := extractAccessToken(r); token != "" {
			if userID, err := m.Codec.VerifyAccess(token); err == nil {
				if u, err := m.Users.FindByID(m.DB, userID); err == nil && u.IsActive {
					ctx := context.WithValue(r.Context(), userCtxKey, user.ToSafeUser(u))
					r = r.WithContext(ctx)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireVerified passes only identities with a verified email.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Authentication required", "Please sign in to access this resource.")
			return
		}
		if !u.IsVerified {
			utils.RespondError(w, http.StatusForbidden, "Please verify your email address to continue", "You need to verify your email address before accessing this resource.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole passes only identities whose role is in the allow-set.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, "Authentication required", "Please sign in to access this resource.")
				return
			}
			for _, role := range roles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.RespondError(w, http.StatusForbidden, "You do not have permission to access this resource", "Your account does not have the required permissions to access this resource.")
		})
	}
}

// RequireAdmin guards the admin surface.
var RequireAdmin = RequireRole(user.RoleAdmin)

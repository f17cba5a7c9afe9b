package auth

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/minifigstore/api/internal/user"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// Issuer mints token pairs, records the refresh half on the account and
// hands both to the client as cookies.
type Issuer struct {
	Codec  *Codec
	Users  user.Repository
	Secure bool
}

func NewIssuer(codec *Codec, users user.Repository, secure bool) *Issuer {
	return &Issuer{Codec: codec, Users: users, Secure: secure}
}

// IssueSession is the login path: fresh pair, refresh token + expiry stored
// in the same save as the last-login bookkeeping, both cookies written.
func (i *Issuer) IssueSession(db *gorm.DB, w http.ResponseWriter, u *user.User) (string, error) {
	access, refresh, err := i.Codec.IssuePair(u.ID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	expiry := now.Add(i.Codec.RefreshTTL())
	u.LastLogin = &now
	u.RefreshToken = &refresh
	u.RefreshTokenExpiry = &expiry
	if err := i.Users.Save(db, u); err != nil {
		return "", err
	}

	i.SetAuthCookies(w, access, refresh)
	return access, nil
}

// Rotate replaces the pair during silent renewal or an explicit refresh:
// new tokens, stored refresh value and expiry overwritten (invalidating the
// old one), both cookies rewritten.
func (i *Issuer) Rotate(db *gorm.DB, w http.ResponseWriter, userID uint) (access, refresh string, err error) {
	access, refresh, err = i.Codec.IssuePair(userID)
	if err != nil {
		return "", "", err
	}

	expiry := time.Now().Add(i.Codec.RefreshTTL())
	if err = i.Users.SetRefreshToken(db, userID, refresh, expiry); err != nil {
		return "", "", err
	}

	i.SetAuthCookies(w, access, refresh)
	return access, refresh, nil
}

// SetAuthCookies writes both cookies, each with a MaxAge matching its own
// token's expiry window.
func (i *Issuer) SetAuthCookies(w http.ResponseWriter, access, refresh string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookie,
		Value:    access,
		Path:     "/",
		HttpOnly: true,
		Secure:   i.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(i.Codec.AccessTTL().Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    refresh,
		Path:     "/",
		HttpOnly: true,
		Secure:   i.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(i.Codec.RefreshTTL().Seconds()),
	})
}

// ClearAuthCookies expires both cookies with the same attributes used to
// set them.
func (i *Issuer) ClearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   i.Secure,
			SameSite: http.SameSiteStrictMode,
			MaxAge:   -1,
		})
	}
}

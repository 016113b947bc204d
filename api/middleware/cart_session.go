package middleware

import (
	"net/http"

	"github.com/angelmondragon/bookshop-backend/api/responses"
	"github.com/angelmondragon/bookshop-backend/pkg/cartsession"
	"github.com/angelmondragon/bookshop-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/bookshop-backend/pkg/errors"
	"github.com/angelmondragon/bookshop-backend/pkg/logger"
)

// DefaultSessionCookie is used when the session config leaves the cookie name empty.
const DefaultSessionCookie = "cart_session"

// CartSession binds every request to an anonymous cart session. A missing,
// expired or tampered cookie starts a new session; a valid one past half its
// lifetime is re-signed for the same session id.
func CartSession(issuer *cartsession.Issuer, cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var (
				sessionID string
				token     string
			)
			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				claims, parseErr := issuer.Parse(cookie.Value)
				switch {
				case parseErr != nil:
					if logg != nil {
						logg.WarnErr(ctx, "cart session token rejected", parseErr)
					}
				case issuer.NeedsRefresh(claims):
					sessionID = claims.SessionID()
					refreshed, mintErr := issuer.MintFor(sessionID)
					if mintErr != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, mintErr, "refresh cart session"))
						return
					}
					token = refreshed
				default:
					sessionID = claims.SessionID()
				}
			}

			if sessionID == "" {
				minted, id, err := issuer.Mint()
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "start cart session"))
					return
				}
				token, sessionID = minted, id
				if logg != nil {
					logg.Debug(logg.WithSessionID(ctx, sessionID), "cart session started")
				}
			}

			if token != "" {
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(issuer.TTL().Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

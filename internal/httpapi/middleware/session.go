package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/drayac/Martin/internal/account"
	"github.com/drayac/Martin/internal/auth"
	"github.com/drayac/Martin/internal/common"
	"github.com/drayac/Martin/internal/local"
	"github.com/drayac/Martin/internal/session"
)

const (
	SessionCookie = "martin_session"
	SessionKey    = "session"
)

// Session resolves the caller's session from the signed cookie, minting a
// fresh session with a guest identity on first visit. Guest cleanup runs
// on every request; the manager decides when it actually prunes.
func Session(sessions *session.Manager, accounts *account.Manager, secret string, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		var sess *session.Session
		if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
			if id, err := auth.ParseSession(token, secret); err == nil {
				if s, ok := sessions.Get(id); ok {
					sess = s
				}
			}
		}

		if sess == nil {
			s, err := sessions.Create(local.English)
			if err != nil {
				common.Fail(c, http.StatusInternalServerError, 50001, "failed to create session")
				c.Abort()
				return
			}
			sess = s
			// a failed guest registration leaves the session usable,
			// just without a persisted transcript
			if _, err := accounts.CreateGuest(c.Request.Context(), sess); err != nil {
				logger.Warn("guest creation failed", zap.Error(err))
			}
			token, err := auth.SignSession(sess.ID, secret, ttl)
			if err != nil {
				common.Fail(c, http.StatusInternalServerError, 50002, "failed to sign session")
				c.Abort()
				return
			}
			c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
		}

		accounts.CleanupGuests(c.Request.Context(), sess)
		c.Set(SessionKey, sess)
		c.Next()
	}
}

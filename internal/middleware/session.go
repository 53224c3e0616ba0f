package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spendsense/spendsense-backend/internal/logger"
	"github.com/spendsense/spendsense-backend/internal/requestdata"
)

const sessionCookieName = "ss_session"

const sessionCookieMaxAge = 30 * 24 * 60 * 60

type SessionMiddleware struct {
	log    *logger.Logger
	secure bool
}

func NewSessionMiddleware(log *logger.Logger, secure bool) *SessionMiddleware {
	middlewareLog := log.With("middleware", "SessionMiddleware")
	return &SessionMiddleware{log: middlewareLog, secure: secure}
}

// EnsureSession identifies the anonymous visitor. A valid ss_session cookie is
// reused; anything else gets a fresh uuid. The id lands in request data where
// the funnel services key their state by it.
func (sm *SessionMiddleware) EnsureSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := ""
		if cookie, err := c.Cookie(sessionCookieName); err == nil {
			if parsed, pErr := uuid.Parse(cookie); pErr == nil {
				sessionID = parsed.String()
			}
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookieName, sessionID, sessionCookieMaxAge, "/", "", sm.secure, true)
		}

		ctx := c.Request.Context()
		rd := requestdata.GetRequestData(ctx)
		if rd == nil {
			rd = &requestdata.RequestData{}
		}
		rd.SessionID = sessionID
		c.Request = c.Request.WithContext(requestdata.WithRequestData(ctx, rd))
		c.Next()
	}
}

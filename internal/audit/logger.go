package audit

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventLoginSuccess    EventType = "login_success"
	EventLoginFailure    EventType = "login_failure"
	EventLogout          EventType = "logout"
	EventAccountCreate   EventType = "account_create"
	EventAccountUpdate   EventType = "account_update"
	EventPasswordReset   EventType = "password_reset"
	EventRateLimitExceed EventType = "rate_limit_exceeded"
	EventCSRFFailure     EventType = "csrf_failure"
	EventAuthFailure     EventType = "auth_failure"
	EventForbidden       EventType = "forbidden"
)

type Event struct {
	Type      EventType
	AccountID string
	ActorID   string
	IP        string
	UserAgent string
	RequestID string
	Details   map[string]interface{}
}

// Log writes a security event through the global zerolog logger. Empty
// identity fields are omitted.
func Log(ctx context.Context, event Event) {
	ev := log.Info()
	ev.Str("audit", "security").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now())

	for key, value := range map[string]string{
		"account_id": event.AccountID,
		"actor_id":   event.ActorID,
		"ip":         event.IP,
		"user_agent": event.UserAgent,
		"request_id": event.RequestID,
	} {
		if value != "" {
			ev.Str(key, value)
		}
	}

	ev.Fields(event.Details).Msg("security audit event")
}

func LogFromRequest(r *http.Request, event Event) {
	event.IP = ClientIP(r)
	event.UserAgent = r.UserAgent()
	event.RequestID = middleware.GetReqID(r.Context())
	Log(r.Context(), event)
}

// ClientIP returns the host part of RemoteAddr. That is the socket peer
// unless the router was configured to trust proxy headers.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package authenticator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iotbase/iot-auth/pkg/audit"
	"github.com/iotbase/iot-auth/pkg/server/store"
	"github.com/iotbase/iot-auth/pkg/verdict"
)

// Authenticator evaluates broker connect requests
type Authenticator struct {
	credentials store.CredentialStore
	audit       audit.Sink
	logger      *slog.Logger
}

// New creates an Authenticator. A nil sink discards events and a nil logger
// uses slog.Default().
func New(credentials store.CredentialStore, sink audit.Sink, logger *slog.Logger) *Authenticator {
	if sink == nil {
		sink = audit.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		credentials: credentials,
		audit:       sink,
		logger:      logger.With("component", "authenticator"),
	}
}

// Authenticate decides whether username/password may connect.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (v verdict.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			v = a.fault(ctx, username, fmt.Errorf("panic: %v", r))
		}
	}()

	if username == "" || password == "" {
		return a.decide(ctx, username, verdict.Ignore(verdict.ReasonCredentialsRequired))
	}

	cred, err := a.credentials.FindByNamePassword(ctx, username, password)
	switch {
	case errors.Is(err, store.ErrCredentialNotFound):
		return a.decide(ctx, username, verdict.Deny(verdict.ReasonInvalidCredentials))
	case err != nil:
		return a.fault(ctx, username, err)
	}

	return a.decide(ctx, username, verdict.AllowCredential(cred.IsSuperuser, cred.ResourceType()))
}

func (a *Authenticator) decide(ctx context.Context, username string, v verdict.Verdict) verdict.Verdict {
	event := audit.AuthenticateEvent{
		Username: username,
		ClientIP: audit.ClientIP(ctx),
		Result:   string(v.Result),
		Reason:   v.Reason,
	}
	if v.ResourceType != nil {
		event.ResourceType = v.ResourceType.String()
	}
	a.audit.Record(event)

	a.logger.DebugContext(ctx, "authentication decided",
		"username", username,
		"result", v.Result,
		"reason", v.Reason,
		"is_superuser", v.IsSuperuser,
	)
	return v
}

func (a *Authenticator) fault(ctx context.Context, username string, err error) verdict.Verdict {
	a.logger.ErrorContext(ctx, "authentication failed internally", "username", username, "error", err)
	a.audit.Record(audit.FaultEvent{
		Category: audit.CategoryAuthentication,
		Username: username,
		Err:      err.Error(),
	})
	return verdict.Ignore(verdict.ReasonInternalError)
}

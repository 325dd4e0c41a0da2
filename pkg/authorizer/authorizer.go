package authorizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iotbase/iot-auth/pkg/audit"
	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/server/store"
	"github.com/iotbase/iot-auth/pkg/topic"
	"github.com/iotbase/iot-auth/pkg/verdict"
)

// Authorizer evaluates publish/subscribe requests
type Authorizer struct {
	credentials store.CredentialStore
	permissions store.PermissionStore
	audit       audit.Sink
	logger      *slog.Logger
}

// New creates an Authorizer. A nil sink discards events and a nil logger
// uses slog.Default().
func New(credentials store.CredentialStore, permissions store.PermissionStore, sink audit.Sink, logger *slog.Logger) *Authorizer {
	if sink == nil {
		sink = audit.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{
		credentials: credentials,
		permissions: permissions,
		audit:       sink,
		logger:      logger.With("component", "authorizer"),
	}
}

// Authorize decides whether username may perform action on topicName.
func (a *Authorizer) Authorize(ctx context.Context, username, topicName, action string) (v verdict.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			v = a.fault(ctx, username, topicName, fmt.Errorf("panic: %v", r))
		}
	}()

	switch {
	case username == "":
		return a.decide(ctx, username, topicName, action, verdict.Ignore(verdict.ReasonUsernameRequired))
	case topicName == "":
		return a.decide(ctx, username, topicName, action, verdict.Ignore(verdict.ReasonTopicRequired))
	}
	requested, ok := model.ParseRequestAction(action)
	if !ok {
		return a.decide(ctx, username, topicName, action, verdict.Ignore(verdict.ReasonInvalidAction))
	}

	v, err := a.evaluate(ctx, username, topicName, requested)
	if err != nil {
		return a.fault(ctx, username, topicName, err)
	}
	return a.decide(ctx, username, topicName, action, v)
}

func (a *Authorizer) evaluate(ctx context.Context, username, topicName string, action model.Action) (verdict.Verdict, error) {
	cred, err := a.credentials.FindByName(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrCredentialNotFound) {
			return verdict.Deny(verdict.ReasonCredentialNotFound), nil
		}
		return verdict.Verdict{}, fmt.Errorf("credential lookup: %w", err)
	}

	if cred.IsSuperuser {
		return verdict.Allow(), nil
	}

	perms, err := a.permissions.FindActiveByCredential(ctx, cred.ID, action)
	if err != nil {
		return verdict.Verdict{}, fmt.Errorf("permission lookup: %w", err)
	}
	if len(perms) == 0 {
		return verdict.Deny(verdict.ReasonNoPermissions), nil
	}

	for _, p := range perms {
		if p.Action.Covers(action) && topic.Match(p.Topic, topicName) {
			return verdict.Allow(), nil
		}
	}
	return verdict.Deny(verdict.ReasonNoMatchingTopic), nil
}

func (a *Authorizer) decide(ctx context.Context, username, topicName, action string, v verdict.Verdict) verdict.Verdict {
	a.audit.Record(audit.ACLCheckEvent{
		Username: username,
		ClientIP: audit.ClientIP(ctx),
		Topic:    topicName,
		Action:   action,
		Result:   string(v.Result),
		Reason:   v.Reason,
	})
	a.logger.DebugContext(ctx, "authorization decided",
		"username", username,
		"topic", topicName,
		"action", action,
		"result", v.Result,
		"reason", v.Reason,
	)
	return v
}

func (a *Authorizer) fault(ctx context.Context, username, topicName string, err error) verdict.Verdict {
	a.logger.ErrorContext(ctx, "authorization failed internally",
		"username", username,
		"topic", topicName,
		"error", err,
	)
	a.audit.Record(audit.FaultEvent{
		Category: audit.CategoryAuthorization,
		Username: username,
		Topic:    topicName,
		Err:      err.Error(),
	})
	return verdict.Ignore(verdict.ReasonInternalError)
}

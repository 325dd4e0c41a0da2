package policy

import (
	"context"
	"fmt"

	"github.com/iotbase/iot-auth/pkg/audit"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

// Result counts the changes made by a load
type Result struct {
	Granted   int            `json:"granted"`
	Revoked   int            `json:"revoked"`
	Unchanged int            `json:"unchanged"`
	DryRun    bool           `json:"dry_run,omitempty"`
	PerName   map[string]int `json:"changes_by_credential"`
}

// Loader applies permission documents
type Loader struct {
	credentials store.CredentialStore
	grants      store.GrantStore
	audit       audit.Sink
	actor       string
	dryRun      bool
}

// NewLoader creates a new permission loader
func NewLoader(credentials store.CredentialStore, grants store.GrantStore) *Loader {
	return &Loader{
		credentials: credentials,
		grants:      grants,
		audit:       audit.Discard,
		actor:       "iotctl",
	}
}

// WithActor sets the name recorded in audit events
func (l *Loader) WithActor(actor string) *Loader {
	l.actor = actor
	return l
}

// WithAudit sets the audit sink
func (l *Loader) WithAudit(sink audit.Sink) *Loader {
	if sink != nil {
		l.audit = sink
	}
	return l
}

// WithDryRun resolves every credential but writes nothing
func (l *Loader) WithDryRun(dryRun bool) *Loader {
	l.dryRun = dryRun
	return l
}

// Load applies doc entry by entry. Every credential and rule is resolved
// before anything is written, so an unknown name or a bad rule aborts the
// load without changes. A store failure part way through leaves the writes
// made before it in place; loading the same document again finishes the job.
func (l *Loader) Load(ctx context.Context, doc *Document) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	plans := make([]plan, 0, len(doc.Credentials))
	for _, e := range doc.Credentials {
		cred, err := l.credentials.FindByName(ctx, e.Name)
		if err != nil {
			return nil, fmt.Errorf("credential %s: %w", e.Name, err)
		}
		pl := plan{name: e.Name, id: cred.ID}
		if pl.grant, err = toGrants(e.Grant); err != nil {
			return nil, fmt.Errorf("credential %s: grant %w", e.Name, err)
		}
		if pl.revoke, err = toGrants(e.Revoke); err != nil {
			return nil, fmt.Errorf("credential %s: revoke %w", e.Name, err)
		}
		plans = append(plans, pl)
	}

	result := &Result{DryRun: l.dryRun, PerName: map[string]int{}}
	if l.dryRun {
		return result, nil
	}

	for _, pl := range plans {
		for _, g := range pl.grant {
			changed, err := l.grants.EnsurePermission(ctx, pl.id, g)
			if err != nil {
				return result, fmt.Errorf("credential %s: grant %s on %s: %w", pl.name, g.Action, g.Topic, err)
			}
			l.count(result, pl.name, changed, &result.Granted)
			l.record(pl.name, g, "grant", changed)
		}
		for _, g := range pl.revoke {
			changed, err := l.grants.RevokePermission(ctx, pl.id, g)
			if err != nil {
				return result, fmt.Errorf("credential %s: revoke %s on %s: %w", pl.name, g.Action, g.Topic, err)
			}
			l.count(result, pl.name, changed, &result.Revoked)
			l.record(pl.name, g, "revoke", changed)
		}
	}
	return result, nil
}

// plan is one document entry resolved against the store
type plan struct {
	name   string
	id     int64
	grant  []store.Grant
	revoke []store.Grant
}

func toGrants(rules []Rule) ([]store.Grant, error) {
	grants := make([]store.Grant, 0, len(rules))
	for _, r := range rules {
		g, err := r.toGrant()
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, nil
}

func (l *Loader) count(result *Result, name string, changed bool, counter *int) {
	if !changed {
		result.Unchanged++
		return
	}
	*counter++
	result.PerName[name]++
}

func (l *Loader) record(name string, g store.Grant, operation string, changed bool) {
	l.audit.Record(audit.PermissionEvent{
		Actor:      l.actor,
		Credential: name,
		Topic:      g.Topic,
		Action:     g.Action.String(),
		Operation:  operation,
		Changed:    changed,
	})
}

// Package policy loads topic permission files.
//
// A permission file lists credentials by name together with the topic rules
// to grant or revoke:
//
//	credentials:
//	  - name: device_42
//	    grant:
//	      - topic: 7/42/+/sdata
//	        action: publish
//	      - topic: 7/42/+/acdata
//	        action: subscribe
//	    revoke:
//	      - topic: 7/#
//	        action: all
//
// Loading is idempotent: grants that already exist and revocations of rules
// that are not active leave the database unchanged.
//
// # Loading
//
//	doc, err := policy.Parse(file)
//	if err != nil {
//	    return err
//	}
//	result, err := policy.NewLoader(credentials, grants).WithActor("admin").Load(ctx, doc)
//
// A Watcher reloads a file whenever it is written.
package policy

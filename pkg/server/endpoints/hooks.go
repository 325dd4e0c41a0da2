package endpoints

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iotbase/iot-auth/pkg/audit"
	"github.com/iotbase/iot-auth/pkg/authenticator"
	"github.com/iotbase/iot-auth/pkg/authorizer"
	"github.com/iotbase/iot-auth/pkg/server"
	"github.com/iotbase/iot-auth/pkg/server/middleware"
	"github.com/iotbase/iot-auth/pkg/verdict"
)

const (
	errTokenRequired     = "Token is required"
	errTokenInvalid      = "Invalid token"
	errMalformedBody     = "Malformed request body"
	errCredentialMissing = "Username and password are required"
)

// AuthRequest is the body of a broker connect hook call
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ACLRequest is the body of a broker publish/subscribe hook call
type ACLRequest struct {
	Username string `json:"username"`
	Topic    string `json:"topic"`
	Action   string `json:"action"`
}

// HookResponse is returned to the broker
type HookResponse struct {
	Result       verdict.Result `json:"result"`
	IsSuperuser  *bool          `json:"is_superuser,omitempty"`
	ResourceType string         `json:"resource_type,omitempty"`
	Reason       string         `json:"reason,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// RegisterHookEndpoints registers the broker auth and ACL hooks
func RegisterHookEndpoints(s *server.Server) {
	hookToken := s.Config.HookToken

	// An empty token segment still routes here so it can be ignored with 403
	s.Router.HandleFunc("/iot/auth", handleAuth(s.Authenticator, hookToken)).Methods("POST")
	s.Router.HandleFunc("/iot/auth/{token:.*}", handleAuth(s.Authenticator, hookToken)).Methods("POST")
	s.Router.HandleFunc("/iot/acl", handleACL(s.Authorizer, hookToken)).Methods("POST")
	s.Router.HandleFunc("/iot/acl/{token:.*}", handleACL(s.Authorizer, hookToken)).Methods("POST")
}

// checkHookToken writes a 403 ignore and returns false when the path token
// is empty or doesn't match the configured hook token.
func checkHookToken(w http.ResponseWriter, r *http.Request, hookToken string) bool {
	token := mux.Vars(r)["token"]
	if token == "" {
		respondWithJSON(w, http.StatusForbidden, HookResponse{Result: verdict.ResultIgnore, Error: errTokenRequired})
		return false
	}
	if hookToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(hookToken)) != 1 {
		respondWithJSON(w, http.StatusForbidden, HookResponse{Result: verdict.ResultIgnore, Error: errTokenInvalid})
		return false
	}
	return true
}

func handleAuth(authn *authenticator.Authenticator, hookToken string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !checkHookToken(w, r, hookToken) {
			return
		}

		var req AuthRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondWithJSON(w, http.StatusForbidden, HookResponse{Result: verdict.ResultIgnore, Error: errMalformedBody})
			return
		}
		if req.Username == "" || req.Password == "" {
			respondWithJSON(w, http.StatusBadRequest, HookResponse{Result: verdict.ResultIgnore, Error: errCredentialMissing})
			return
		}

		ctx := audit.WithClientIP(r.Context(), middleware.ClientIP(r))
		v := authn.Authenticate(ctx, req.Username, req.Password)
		if !v.Allowed() {
			respondWithJSON(w, http.StatusForbidden, HookResponse{Result: v.Result})
			return
		}

		resp := HookResponse{Result: v.Result, IsSuperuser: &v.IsSuperuser}
		if v.ResourceType != nil {
			resp.ResourceType = v.ResourceType.String()
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

func handleACL(authz *authorizer.Authorizer, hookToken string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !checkHookToken(w, r, hookToken) {
			return
		}

		var req ACLRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondWithJSON(w, http.StatusForbidden, HookResponse{Result: verdict.ResultIgnore, Error: errMalformedBody})
			return
		}

		ctx := audit.WithClientIP(r.Context(), middleware.ClientIP(r))
		v := authz.Authorize(ctx, req.Username, req.Topic, req.Action)
		if !v.Allowed() {
			respondWithJSON(w, http.StatusForbidden, HookResponse{Result: v.Result, Reason: v.Reason})
			return
		}
		respondWithJSON(w, http.StatusOK, HookResponse{Result: v.Result})
	}
}

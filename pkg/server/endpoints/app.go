package endpoints

import (
	"errors"
	"net/http"

	"github.com/iotbase/iot-auth/pkg/config"
	"github.com/iotbase/iot-auth/pkg/identity"
	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/provision"
	"github.com/iotbase/iot-auth/pkg/server"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

// CredentialResponse is an MQTT login handed to an application
type CredentialResponse struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	IsSuperuser bool   `json:"is_superuser"`
}

// AppResponse is everything a client app needs to connect to the broker
type AppResponse struct {
	BrokerURL   string             `json:"broker_url"`
	Credentials CredentialResponse `json:"credentials"`
}

func credentialResponse(cred *store.Credential) CredentialResponse {
	return CredentialResponse{
		Username:    cred.Name,
		Password:    cred.Password,
		IsSuperuser: cred.IsSuperuser,
	}
}

// RegisterAppEndpoints registers the session user's credential endpoints
func RegisterAppEndpoints(s *server.Server) {
	cfg := s.Config
	provisioner := s.Provisioner
	session := s.SessionMiddleware.Middleware

	s.Router.Handle("/iot/app", session(handleApp(cfg, provisioner))).Methods("GET")
	s.Router.Handle("/iot/credentials/regenerate", session(handleRegenerate(cfg, provisioner))).Methods("POST")
}

func handleApp(cfg *config.Config, provisioner *provision.Provisioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authorization missing")
			return
		}

		cred, err := provisioner.UserCredential(r.Context(), id.UserID, id.Login)
		if err != nil {
			respondProvisionError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, AppResponse{
			BrokerURL:   cfg.EffectiveBrokerURL(),
			Credentials: credentialResponse(cred),
		})
	}
}

func handleRegenerate(cfg *config.Config, provisioner *provision.Provisioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authorization missing")
			return
		}

		cred, err := provisioner.Regenerate(r.Context(), model.UserOwner{ID: id.UserID}, id.Login)
		if err != nil {
			respondProvisionError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, AppResponse{
			BrokerURL:   cfg.EffectiveBrokerURL(),
			Credentials: credentialResponse(cred),
		})
	}
}

func respondProvisionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, store.ErrCredentialNotFound):
		respondWithError(w, http.StatusNotFound, "no active credential")
	default:
		respondWithError(w, http.StatusInternalServerError, "failed to provision credential")
	}
}

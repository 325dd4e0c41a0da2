package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	sessionToken string
	users        map[string]int64
	saved        savedCredential

	previousPassword string
}

type savedCredential struct {
	username string
	password string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:    tc,
		users: make(map[string]int64),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.resetDatabase()
	})

	// Background steps
	sc.Step(`^the auth server is running$`, s.theAuthServerIsRunning)
	sc.Step(`^a user "([^"]*)" in company (\d+)$`, s.aUserInCompany)
	sc.Step(`^a credential "([^"]*)" with password "([^"]*)" for user "([^"]*)"$`, s.aCredentialForUser)
	sc.Step(`^a superuser credential "([^"]*)" with password "([^"]*)" for user "([^"]*)"$`, s.aSuperuserCredentialForUser)
	sc.Step(`^the credential "([^"]*)" is deactivated$`, s.theCredentialIsDeactivated)
	sc.Step(`^credential "([^"]*)" may "(publish|subscribe|all)" on "([^"]*)"$`, s.credentialMayOn)

	// Hook steps
	sc.Step(`^the broker authenticates "([^"]*)" with password "([^"]*)"$`, s.theBrokerAuthenticates)
	sc.Step(`^the broker authenticates "([^"]*)" with password "([^"]*)" using token "([^"]*)"$`, s.theBrokerAuthenticatesUsingToken)
	sc.Step(`^the broker checks whether "([^"]*)" may (\w+) to "([^"]*)"$`, s.theBrokerChecksACL)
	sc.Step(`^the broker authenticates with the returned credentials$`, s.theBrokerAuthenticatesWithReturnedCredentials)
	sc.Step(`^the broker checks whether the returned credentials may (\w+) to "([^"]*)"$`, s.theBrokerChecksReturnedCredentials)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the result should be "([^"]*)"$`, s.theResultShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)

	s.registerSessionSteps(sc)
}

func (s *StepsContext) resetDatabase() error {
	s.users = make(map[string]int64)
	s.saved = savedCredential{}
	s.previousPassword = ""
	s.sessionToken = ""
	return s.tc.DB.Exec(`TRUNCATE iot_permissions, iot_credentials, iot_devices, iot_device_types, users RESTART IDENTITY CASCADE`).Error
}

// Background steps

func (s *StepsContext) theAuthServerIsRunning() error {
	return waitForServer(s.tc.ServerURL, 5*time.Second)
}

func (s *StepsContext) aUserInCompany(login string, companyID int64) error {
	var id int64
	row := s.tc.DB.Raw(`INSERT INTO users (login, company_id) VALUES (?, ?) RETURNING id`, login, companyID).Row()
	if err := row.Scan(&id); err != nil {
		return fmt.Errorf("failed to create user %s: %w", login, err)
	}
	s.users[login] = id
	return nil
}

func (s *StepsContext) aCredentialForUser(name, password, login string) error {
	return s.createUserCredential(name, password, login, false)
}

func (s *StepsContext) aSuperuserCredentialForUser(name, password, login string) error {
	return s.createUserCredential(name, password, login, true)
}

func (s *StepsContext) createUserCredential(name, password, login string, superuser bool) error {
	userID, ok := s.users[login]
	if !ok {
		return fmt.Errorf("unknown user %s", login)
	}
	return s.tc.DB.Exec(`
		INSERT INTO iot_credentials (name, password, is_superuser, resource_type, user_id, company_id)
		SELECT ?, ?, ?, 'user', id, company_id FROM users WHERE id = ?
	`, name, password, superuser, userID).Error
}

func (s *StepsContext) theCredentialIsDeactivated(name string) error {
	return s.tc.DB.Exec(`UPDATE iot_credentials SET active = false WHERE name = ?`, name).Error
}

func (s *StepsContext) credentialMayOn(name, action, topic string) error {
	return s.tc.DB.Exec(`
		INSERT INTO iot_permissions (credential_id, topic, action)
		SELECT id, ?, ? FROM iot_credentials WHERE name = ? AND active
	`, topic, action, name).Error
}

// Hook steps

func (s *StepsContext) theBrokerAuthenticates(username, password string) error {
	return s.theBrokerAuthenticatesUsingToken(username, password, s.tc.HookToken)
}

func (s *StepsContext) theBrokerAuthenticatesUsingToken(username, password, token string) error {
	return s.post("/iot/auth/"+token, map[string]string{"username": username, "password": password}, "")
}

func (s *StepsContext) theBrokerChecksACL(username, action, topic string) error {
	return s.post("/iot/acl/"+s.tc.HookToken, map[string]string{
		"username": username,
		"topic":    topic,
		"action":   action,
	}, "")
}

func (s *StepsContext) theBrokerAuthenticatesWithReturnedCredentials() error {
	if s.saved.username == "" {
		return fmt.Errorf("no credentials were returned")
	}
	return s.theBrokerAuthenticates(s.saved.username, s.saved.password)
}

func (s *StepsContext) theBrokerChecksReturnedCredentials(action, topic string) error {
	if s.saved.username == "" {
		return fmt.Errorf("no credentials were returned")
	}
	return s.theBrokerChecksACL(s.saved.username, action, topic)
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResultShouldBe(result string) error {
	return s.theResponseFieldShouldBe("result", result)
}

func (s *StepsContext) theResponseFieldShouldBe(field, expected string) error {
	var body map[string]any
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("response is not a JSON object: %s", string(s.responseBody))
	}

	var value any = body
	for _, key := range strings.Split(field, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("field %s not found in %s", field, string(s.responseBody))
		}
		if value, ok = m[key]; !ok {
			return fmt.Errorf("field %s not found in %s", field, string(s.responseBody))
		}
	}

	if got := fmt.Sprint(value); got != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, got)
	}
	return nil
}

// HTTP helpers

func (s *StepsContext) post(path string, body any, bearer string) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return s.do(http.MethodPost, path, bytes.NewReader(data), bearer)
}

func (s *StepsContext) do(method, path string, body io.Reader, bearer string) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

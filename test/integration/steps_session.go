package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cucumber/godog"

	"github.com/iotbase/iot-auth/pkg/identity"
	"github.com/iotbase/iot-auth/pkg/model"
)

func (s *StepsContext) registerSessionSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I am signed in as "([^"]*)"$`, s.iAmSignedInAs)
	sc.Step(`^I am signed in with an expired session as "([^"]*)"$`, s.iAmSignedInWithExpiredSessionAs)
	sc.Step(`^I request my app settings$`, s.iRequestMyAppSettings)
	sc.Step(`^I regenerate my credentials$`, s.iRegenerateMyCredentials)
	sc.Step(`^I create a device named "([^"]*)"$`, s.iCreateADeviceNamed)
	sc.Step(`^I list my devices$`, s.iListMyDevices)
	sc.Step(`^the device list should contain (\d+) devices?$`, s.theDeviceListShouldContain)
	sc.Step(`^the returned username should be "([^"]*)"$`, s.theReturnedUsernameShouldBe)
	sc.Step(`^the returned password should differ from the previous one$`, s.theReturnedPasswordShouldDiffer)
	sc.Step(`^user "([^"]*)" should have (\d+) active permissions?$`, s.userShouldHaveActivePermissions)
}

func (s *StepsContext) signIn(login string, ttl time.Duration) error {
	userID, ok := s.users[login]
	if !ok {
		return fmt.Errorf("unknown user %s", login)
	}
	var companyID int64
	if err := s.tc.DB.Raw(`SELECT company_id FROM users WHERE id = ?`, userID).Row().Scan(&companyID); err != nil {
		return err
	}

	token, err := identity.Issue(s.tc.Secret, model.User{ID: userID, Login: login, CompanyID: companyID}, ttl)
	if err != nil {
		return err
	}
	s.sessionToken = token
	return nil
}

func (s *StepsContext) iAmSignedInAs(login string) error {
	return s.signIn(login, time.Hour)
}

func (s *StepsContext) iAmSignedInWithExpiredSessionAs(login string) error {
	return s.signIn(login, -time.Minute)
}

func (s *StepsContext) iRequestMyAppSettings() error {
	if err := s.do(http.MethodGet, "/iot/app", nil, s.sessionToken); err != nil {
		return err
	}
	return s.saveCredentials()
}

func (s *StepsContext) iRegenerateMyCredentials() error {
	if err := s.post("/iot/credentials/regenerate", map[string]string{}, s.sessionToken); err != nil {
		return err
	}
	return s.saveCredentials()
}

func (s *StepsContext) iCreateADeviceNamed(name string) error {
	if err := s.post("/iot/devices", map[string]string{"name": name}, s.sessionToken); err != nil {
		return err
	}
	return s.saveCredentials()
}

func (s *StepsContext) iListMyDevices() error {
	return s.do(http.MethodGet, "/iot/devices", nil, s.sessionToken)
}

// saveCredentials remembers the credentials of a successful response and
// keeps the previous password for comparison
func (s *StepsContext) saveCredentials() error {
	if s.response.StatusCode >= 300 {
		return nil
	}
	var body struct {
		Credentials struct {
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"credentials"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("failed to decode credentials: %w", err)
	}
	s.previousPassword = s.saved.password
	s.saved = savedCredential{username: body.Credentials.Username, password: body.Credentials.Password}
	return nil
}

func (s *StepsContext) theDeviceListShouldContain(count int) error {
	var body struct {
		Devices []model.Device `json:"devices"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("failed to decode devices: %w", err)
	}
	if len(body.Devices) != count {
		return fmt.Errorf("expected %d devices, got %d", count, len(body.Devices))
	}
	return nil
}

func (s *StepsContext) theReturnedUsernameShouldBe(username string) error {
	if s.saved.username != username {
		return fmt.Errorf("expected username %q, got %q", username, s.saved.username)
	}
	return nil
}

func (s *StepsContext) theReturnedPasswordShouldDiffer() error {
	if s.previousPassword == "" {
		return fmt.Errorf("no previous password recorded")
	}
	if s.saved.password == s.previousPassword {
		return fmt.Errorf("password was not changed")
	}
	return nil
}

func (s *StepsContext) userShouldHaveActivePermissions(login string, count int) error {
	var n int64
	err := s.tc.DB.Raw(`
		SELECT count(*) FROM iot_permissions p
		JOIN iot_credentials c ON c.id = p.credential_id
		WHERE c.user_id = ? AND c.active AND p.active
	`, s.users[login]).Row().Scan(&n)
	if err != nil {
		return err
	}
	if int(n) != count {
		return fmt.Errorf("expected %d active permissions for %s, got %d", count, login, n)
	}
	return nil
}

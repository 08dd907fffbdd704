package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"

	"github.com/alnpaa/certify/pkg/authn"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	adminEmail   string
	lastCode     string
	lastID       string
	exportedDoc  []byte
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Scenarios share one database; start each from a clean slate.
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		s.response = nil
		s.responseBody = nil
		s.authToken = ""
		s.lastCode = ""
		s.lastID = ""
		s.exportedDoc = nil
		return ctx, s.tc.DB.Exec(`TRUNCATE certificates`).Error
	})

	// Background steps
	sc.Step(`^a Certify server is running$`, s.aCertifyServerIsRunning)
	sc.Step(`^an admin "([^"]*)" exists with password "([^"]*)"$`, s.anAdminExistsWithPassword)
	sc.Step(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, s.iAmLoggedInAs)

	// Authentication steps
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogInAs)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^I should receive a session token$`, s.iShouldReceiveASessionToken)

	// Certificate steps
	sc.Step(`^I issue a certificate for "([^"]*)" in program "([^"]*)"$`, s.iIssueACertificate)
	sc.Step(`^the issued code should be (\d+) characters long$`, s.theIssuedCodeShouldBeCharactersLong)
	sc.Step(`^(\d+) certificates exist in program "([^"]*)"$`, s.certificatesExistInProgram)
	sc.Step(`^I request page (\d+) of certificates$`, s.iRequestPageOfCertificates)
	sc.Step(`^the page should contain (\d+) certificates$`, s.thePageShouldContainCertificates)
	sc.Step(`^the total page count should be (\d+)$`, s.theTotalPageCountShouldBe)
	sc.Step(`^I search certificates for "([^"]*)"$`, s.iSearchCertificatesFor)
	sc.Step(`^the search results should include "([^"]*)"$`, s.theSearchResultsShouldInclude)
	sc.Step(`^I delete the last issued certificate with password "([^"]*)"$`, s.iDeleteTheLastIssuedCertificate)
	sc.Step(`^the certificate count should be (\d+)$`, s.theCertificateCountShouldBe)

	// Verification steps
	sc.Step(`^I verify the last issued code without authentication$`, s.iVerifyTheLastIssuedCode)
	sc.Step(`^I verify the code "([^"]*)" without authentication$`, s.iVerifyTheCode)
	sc.Step(`^the verification should be valid$`, s.theVerificationShouldBeValid)
	sc.Step(`^the verification should be invalid$`, s.theVerificationShouldBeInvalid)

	// Backup steps
	sc.Step(`^I export the registry backup$`, s.iExportTheRegistryBackup)
	sc.Step(`^I import the exported backup$`, s.iImportTheExportedBackup)
	sc.Step(`^the import result should be (\d+) imported and (\d+) skipped$`, s.theImportResultShouldBe)
}

// Background steps

func (s *StepsContext) aCertifyServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) anAdminExistsWithPassword(email, password string) error {
	s.adminEmail = email

	hash, err := authn.HashPassword(password)
	if err != nil {
		return err
	}

	return s.tc.DB.Exec(`
		INSERT INTO admin_users (email, password_hash) VALUES (?, ?)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`, email, hash).Error
}

func (s *StepsContext) iAmLoggedInAs(email, password string) error {
	if err := s.iLogInAs(email, password); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed with status %d: %s", s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

// Authentication steps

func (s *StepsContext) iLogInAs(email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	err := s.doRequest("POST", "/authn/login", bytes.NewReader(body), false)
	if err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusOK {
		var login map[string]interface{}
		if err := json.Unmarshal(s.responseBody, &login); err == nil {
			if token, ok := login["token"].(string); ok {
				s.authToken = token
			}
		}
	}

	return nil
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iShouldReceiveASessionToken() error {
	var login map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &login); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}

	token, _ := login["token"].(string)
	if strings.Count(token, ".") != 2 {
		return fmt.Errorf("expected a three-part token, got %q", token)
	}
	return nil
}

// Certificate steps

func (s *StepsContext) iIssueACertificate(name, program string) error {
	body, _ := json.Marshal(map[string]string{"name": name, "program": program})

	if err := s.doRequest("POST", "/certificates", bytes.NewReader(body), true); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		var result map[string]interface{}
		if err := json.Unmarshal(s.responseBody, &result); err == nil {
			if cert, ok := result["certificate"].(map[string]interface{}); ok {
				s.lastCode, _ = cert["code"].(string)
				s.lastID, _ = cert["id"].(string)
			}
		}
	}

	return nil
}

func (s *StepsContext) theIssuedCodeShouldBeCharactersLong(length int) error {
	if len(s.lastCode) != length {
		return fmt.Errorf("expected code of length %d, got %q", length, s.lastCode)
	}
	return nil
}

func (s *StepsContext) certificatesExistInProgram(count int, program string) error {
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("Recipient %02d", i+1)
		if err := s.iIssueACertificate(name, program); err != nil {
			return err
		}
		if s.response.StatusCode != http.StatusCreated {
			return fmt.Errorf("failed to issue certificate %d: status %d: %s", i+1, s.response.StatusCode, string(s.responseBody))
		}
	}
	return nil
}

func (s *StepsContext) iRequestPageOfCertificates(page int) error {
	return s.doRequest("GET", fmt.Sprintf("/certificates?page=%d", page), nil, true)
}

func (s *StepsContext) thePageShouldContainCertificates(count int) error {
	var result map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse page response: %w", err)
	}

	items, _ := result["items"].([]interface{})
	if len(items) != count {
		return fmt.Errorf("expected %d items, got %d", count, len(items))
	}
	return nil
}

func (s *StepsContext) theTotalPageCountShouldBe(count int) error {
	var result map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse page response: %w", err)
	}

	totalPages, _ := result["total_pages"].(float64)
	if int(totalPages) != count {
		return fmt.Errorf("expected %d total pages, got %d", count, int(totalPages))
	}
	return nil
}

func (s *StepsContext) iSearchCertificatesFor(term string) error {
	return s.doRequest("GET", "/certificates?search="+term, nil, true)
}

func (s *StepsContext) theSearchResultsShouldInclude(name string) error {
	var result map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse search response: %w", err)
	}

	items, _ := result["items"].([]interface{})
	for _, raw := range items {
		if item, ok := raw.(map[string]interface{}); ok {
			if item["name"] == name {
				return nil
			}
		}
	}
	return fmt.Errorf("certificate %q not found in search results", name)
}

func (s *StepsContext) iDeleteTheLastIssuedCertificate(password string) error {
	if s.lastID == "" {
		return fmt.Errorf("no certificate has been issued yet")
	}

	body, _ := json.Marshal(map[string]string{"password": password})
	return s.doRequest("DELETE", "/certificates/"+s.lastID, bytes.NewReader(body), true)
}

func (s *StepsContext) theCertificateCountShouldBe(count int) error {
	if err := s.doRequest("GET", "/certificates/stats", nil, true); err != nil {
		return err
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &stats); err != nil {
		return fmt.Errorf("failed to parse stats response: %w", err)
	}

	total, _ := stats["total_certificates"].(float64)
	if int(total) != count {
		return fmt.Errorf("expected %d certificates, got %d", count, int(total))
	}
	return nil
}

// Verification steps

func (s *StepsContext) iVerifyTheLastIssuedCode() error {
	if s.lastCode == "" {
		return fmt.Errorf("no certificate has been issued yet")
	}
	return s.iVerifyTheCode(s.lastCode)
}

func (s *StepsContext) iVerifyTheCode(code string) error {
	return s.doRequest("GET", "/verify/"+code, nil, false)
}

func (s *StepsContext) theVerificationShouldBeValid() error {
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("expected status 200, got %d: %s", s.response.StatusCode, string(s.responseBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse verify response: %w", err)
	}

	valid, _ := result["valid"].(bool)
	if !valid {
		return fmt.Errorf("expected valid=true, got %s", string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theVerificationShouldBeInvalid() error {
	if s.response.StatusCode != http.StatusNotFound {
		return fmt.Errorf("expected status 404, got %d: %s", s.response.StatusCode, string(s.responseBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse verify response: %w", err)
	}

	if valid, _ := result["valid"].(bool); valid {
		return fmt.Errorf("expected valid=false, got %s", string(s.responseBody))
	}
	return nil
}

// Backup steps

func (s *StepsContext) iExportTheRegistryBackup() error {
	if err := s.doRequest("GET", "/backup/export", nil, true); err != nil {
		return err
	}
	if s.response.StatusCode == http.StatusOK {
		s.exportedDoc = s.responseBody
	}
	return nil
}

func (s *StepsContext) iImportTheExportedBackup() error {
	if s.exportedDoc == nil {
		return fmt.Errorf("no backup has been exported yet")
	}
	return s.doRequest("POST", "/backup/import", bytes.NewReader(s.exportedDoc), true)
}

func (s *StepsContext) theImportResultShouldBe(imported, skipped int) error {
	var result map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse import response: %w", err)
	}

	gotImported, _ := result["imported"].(float64)
	gotSkipped, _ := result["skipped"].(float64)
	if int(gotImported) != imported || int(gotSkipped) != skipped {
		return fmt.Errorf("expected %d imported / %d skipped, got %d / %d",
			imported, skipped, int(gotImported), int(gotSkipped))
	}
	return nil
}

// doRequest performs an HTTP request against the server and captures the
// response. When authed is true the session token is attached.
func (s *StepsContext) doRequest(method, path string, body io.Reader, authed bool) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", `Token token="`+s.authToken+`"`)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ServiceAccount holds the fields of a Google service-account key that the
// NLU clients need.
type ServiceAccount struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// ReadServiceAccount parses the key file at path.
func ReadServiceAccount(path string) (*ServiceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account %s: %w", path, err)
	}
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("parse service account %s: %w", path, err)
	}
	return &sa, nil
}

// DialogflowProjectID returns PROJECT_ID, falling back to the project named in
// the service-account key when it is unset.
func (c Config) DialogflowProjectID() (string, error) {
	if c.ProjectID != "" {
		return c.ProjectID, nil
	}
	if c.JSONFilePath == "" {
		return "", fmt.Errorf("PROJECT_ID or JSON_FILE_PATH must be set for the dialogflow provider")
	}
	sa, err := ReadServiceAccount(c.JSONFilePath)
	if err != nil {
		return "", err
	}
	if sa.ProjectID == "" {
		return "", fmt.Errorf("service account %s has no project_id", c.JSONFilePath)
	}
	return sa.ProjectID, nil
}

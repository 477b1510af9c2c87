package ai

import "fmt"

// ConfigurationError reports a missing or invalid provider setting, usually the API key.
type ConfigurationError struct {
	Setting string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s is not configured", e.Setting)
	}
	return fmt.Sprintf("configuring %s: %v", e.Setting, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// GatewayError wraps any failure of a call to the model provider.
type GatewayError struct {
	Provider string
	Model    string
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Provider, e.Model, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

package model

import "fmt"

// ConfigurationError is a fatal construction-time error: the technology
// document asks for something the model family does not support, or omits
// a required option. It aborts the model build for that technology.
type ConfigurationError struct {
	Tech   string
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Tech == "" {
		return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("configuration: %s: %s: %s", e.Tech, e.Field, e.Reason)
}

// FitError is a fatal fitting-time error: the performance data cannot
// support the requested fit shape. It is raised before any constraints are
// emitted so a bad fit never reaches the solver as a silently wrong
// relaxation.
type FitError struct {
	Tech   string
	Reason string
}

func (e *FitError) Error() string {
	if e.Tech == "" {
		return "fit: " + e.Reason
	}
	return fmt.Sprintf("fit: %s: %s", e.Tech, e.Reason)
}

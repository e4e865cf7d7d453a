package api

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// StatusResponse returns server status information.
type StatusResponse struct {
	Version               VersionInfo    `json:"version"`
	StoreDriver           string         `json:"store_driver"`
	Resources             []ResourceInfo `json:"resources"`
	CurrentConfigHash     string         `json:"current_config_hash"`
	ActiveConfigHash      string         `json:"active_config_hash"`
	ConfigurationOutdated bool           `json:"configuration_outdated"`
}

// VersionInfo contains build version information.
type VersionInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// ResourceInfo describes a mounted resource.
type ResourceInfo struct {
	Name       string            `json:"name"`
	Paths      []string          `json:"paths"`
	Collection string            `json:"collection"`
	ReadOnly   bool              `json:"read_only"`
	Variant    string            `json:"variant"`
	Routes     map[string]string `json:"routes"`
}

// HealthCheckResponse returns health check results.
type HealthCheckResponse struct {
	Healthy bool                   `json:"healthy"`
	Checks  map[string]CheckResult `json:"checks"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

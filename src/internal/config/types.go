package config

import (
	"path/filepath"
)

type Config struct {
	// General holds server settings.
	General *GeneralConfig `toml:"general" json:"general"`
	// Dispatch holds the settings shared by every resource dispatcher.
	Dispatch *DispatchConfig `toml:"dispatch" json:"dispatch"`
	// Resources are the REST resources exposed under the API prefix. You can add multiple resources.
	Resources []*ResourceConfig `toml:"resource,omitempty" json:"resource,omitempty"`
	// Store selects the storage backend for all resources.
	Store *StoreConfig `toml:"store" json:"store"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// ListenAddr is the HTTP listen address (default: 127.0.0.1:8080).
	ListenAddr string `toml:"listen_addr" json:"listen_addr" validate:"required,hostname_port"`
	// LogLevel is one of debug, info, warn, error (default: info).
	LogLevel string `toml:"log_level" json:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	// APIPrefix is the path every resource is mounted under (default: /api/v1).
	APIPrefix string `toml:"api_prefix" json:"api_prefix" validate:"required,startswith=/"`
	// ShutdownTimeoutSeconds bounds graceful shutdown (default: 10).
	ShutdownTimeoutSeconds int `toml:"shutdown_timeout_seconds" json:"shutdown_timeout_seconds" validate:"gte=0"`
	// MaxBodyBytes bounds request bodies (0 = dispatcher default).
	MaxBodyBytes int64 `toml:"max_body_bytes" json:"max_body_bytes" validate:"gte=0"`
	// CORSOrigin is sent as Access-Control-Allow-Origin (default: *).
	CORSOrigin string `toml:"cors_origin" json:"cors_origin"`
	// AuthToken protects write actions. Clients send it as a bearer token or as the basic auth password.
	AuthToken string `toml:"auth_token,omitempty" json:"-"`
	// PrivateNetworksOnly rejects clients outside loopback and private subnets.
	PrivateNetworksOnly bool `toml:"private_networks_only" json:"private_networks_only"`
}

type DispatchConfig struct {
	// Format is the default response format: raw, html, json, jsonp or xml (default: json).
	Format string `toml:"format" json:"format" validate:"omitempty,response_format"`
	// Variant is the transition table: strict or delete_all (default: strict).
	Variant string `toml:"variant" json:"variant" validate:"omitempty,table_variant"`
	// BodyFormat packs replies into the envelope.
	BodyFormat bool `toml:"body_format" json:"body_format"`
	// JSON is the deprecated name of BodyFormat. It is moved to BodyFormat on load.
	JSON *bool `toml:"json,omitempty" json:"-"`
	// Envelope renames the packed envelope fields.
	Envelope *EnvelopeConfig `toml:"envelope" json:"envelope,omitempty"`
}

type EnvelopeConfig struct {
	StatusCode    string `toml:"status_code" json:"status_code" validate:"required"`
	StatusText    string `toml:"status_text" json:"status_text" validate:"required,nefield=StatusCode"`
	Body          string `toml:"body" json:"body" validate:"required,nefield=StatusCode,nefield=StatusText"`
	OmitEmptyBody bool   `toml:"omit_empty_body" json:"omit_empty_body"`
}

type ResourceConfig struct {
	// Name is the path segment of the resource.
	Name string `toml:"name" json:"name" validate:"required,resource_name"`
	// Aliases are additional path segments serving the same resource.
	Aliases []string `toml:"aliases,omitempty" json:"aliases,omitempty" validate:"dive,resource_name"`
	// Routes remaps actions (index, store, show, update, delete, deleteAll) to handler names. An empty name unroutes the action.
	Routes map[string]string `toml:"routes,omitempty" json:"routes,omitempty" validate:"dive,keys,action_name,endkeys"`
	// Store is the collection backing the resource (default: the resource name).
	Store string `toml:"store,omitempty" json:"store,omitempty" validate:"omitempty,resource_name"`
	// ReadOnly rejects store, update, delete and deleteAll with 405.
	ReadOnly bool `toml:"read_only" json:"read_only"`
	// Variant overrides dispatch.variant for this resource.
	Variant string `toml:"variant,omitempty" json:"variant,omitempty" validate:"omitempty,table_variant"`
}

type StoreConfig struct {
	// Driver is memory or postgres (default: memory).
	Driver string `toml:"driver" json:"driver" validate:"required,oneof=memory postgres"`
	// DSN is the PostgreSQL connection string. Required for postgres.
	DSN string `toml:"dsn,omitempty" json:"-" validate:"required_if=Driver postgres"`
	// MaxConns caps the connection pool (0 = driver default).
	MaxConns int32 `toml:"max_conns,omitempty" json:"max_conns,omitempty" validate:"gte=0"`
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

func (c *Config) GetConfigPath() string {
	return c._absConfigFilePath
}

// Collection returns the store collection name of the resource.
func (r *ResourceConfig) Collection() string {
	if r.Store != "" {
		return r.Store
	}
	return r.Name
}

// Paths returns the resource name followed by its aliases.
func (r *ResourceConfig) Paths() []string {
	return append([]string{r.Name}, r.Aliases...)
}

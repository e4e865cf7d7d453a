// Package config handles configuration file parsing and validation for restd.
//
// This package reads TOML configuration files and provides strongly-typed
// structures for accessing configuration data. Deprecated fields are upgraded
// on load and missing sections get defaults.
//
// # Configuration Structure
//
// The configuration file defines:
//   - General settings (listen address, log level, API prefix)
//   - Dispatch settings shared by every resource (response format, transition
//     table variant, envelope field names)
//   - Resources with their aliases, route remapping and store collection
//   - The storage backend (memory or PostgreSQL)
//
// # Example Usage
//
//	cfg, err := config.LoadConfig("/etc/restd.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, res := range cfg.Resources {
//	    restCfg, _ := cfg.ToRestConfig(res)
//	    d, _ := rest.New(controller, restCfg)
//	    d.Mount(router, res.Name, res.Aliases...)
//	}
//
// Validation errors are collected into ValidationErrors, each naming the
// resource and the TOML field path at fault.
package config

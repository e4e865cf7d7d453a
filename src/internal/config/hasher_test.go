package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCalculateHash_Deterministic(t *testing.T) {
	config := validConfig()

	h1, err := CalculateHash(config)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := CalculateHash(config)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 || len(h1) != 32 {
		t.Errorf("Expected stable md5 hash, got %s and %s", h1, h2)
	}
}

func TestCalculateHash_OrderIndependent(t *testing.T) {
	a := validConfig()
	a.Resources = []*ResourceConfig{
		{Name: "notes", Aliases: []string{"memos", "n"}},
		{Name: "tasks"},
	}
	b := validConfig()
	b.Resources = []*ResourceConfig{
		{Name: "tasks"},
		{Name: "notes", Aliases: []string{"n", "memos"}},
	}

	ha, _ := CalculateHash(a)
	hb, _ := CalculateHash(b)
	if ha != hb {
		t.Errorf("Expected equal hashes, got %s and %s", ha, hb)
	}
}

func TestCalculateHash_SettingsIncluded(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{name: "listen addr", modify: func(c *Config) { c.General.ListenAddr = "0.0.0.0:1" }},
		{name: "variant", modify: func(c *Config) { c.Dispatch.Variant = "delete_all" }},
		{name: "body format", modify: func(c *Config) { c.Dispatch.BodyFormat = true }},
		{name: "routes", modify: func(c *Config) { c.Resources[0].Routes = map[string]string{"show": "index"} }},
		{name: "read only", modify: func(c *Config) { c.Resources[0].ReadOnly = true }},
		{name: "store driver", modify: func(c *Config) { c.Store.Driver = DriverPostgres }},
	}

	base, _ := CalculateHash(validConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modify(config)
			hash, err := CalculateHash(config)
			if err != nil {
				t.Fatal(err)
			}
			if hash == base {
				t.Error("Expected hash to change")
			}
		})
	}
}

func TestCalculateHash_DSNExcluded(t *testing.T) {
	a := validConfig()
	b := validConfig()
	b.Store.DSN = "postgres://secret@localhost/db"

	ha, _ := CalculateHash(a)
	hb, _ := CalculateHash(b)
	if ha != hb {
		t.Error("Expected DSN to be excluded from hash")
	}
}

func TestConfigHasher_CurrentAndActive(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "restd.toml")
	if err := os.WriteFile(configFile, []byte(validTOML), 0644); err != nil {
		t.Fatal(err)
	}

	hasher := NewConfigHasher(configFile)
	current, err := hasher.GetCurrentConfigHash()
	if err != nil {
		t.Fatal(err)
	}
	if hasher.GetActiveConfigHash() != "" {
		t.Error("Expected empty active hash before start")
	}
	hasher.SetActiveConfigHash(current)

	if err := os.WriteFile(configFile, []byte(validTOML+"\n[general.extra]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cached, _ := hasher.GetCurrentConfigHash()
	if cached != current {
		t.Error("Expected cached hash within TTL")
	}

	if err := os.WriteFile(configFile, []byte(validTOML+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	updated, err := hasher.UpdateCurrentConfigHash()
	if err != nil {
		t.Fatal(err)
	}
	if updated != current {
		t.Error("Expected whitespace change to keep the hash")
	}
	if hasher.GetActiveConfigHash() != current {
		t.Error("Active hash should not change")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maksimkurb/restd/src/rest"
	"github.com/maksimkurb/restd/src/rest/response"
)

const validTOML = `[general]
listen_addr = "127.0.0.1:9090"
log_level = "debug"

[dispatch]
format = "json"
variant = "delete_all"
body_format = true

[dispatch.envelope]
status_code = "status"
status_text = "msg"
body = "result"
omit_empty_body = true

[[resource]]
name = "notes"
aliases = ["memos"]

[resource.routes]
show = "index"
deleteAll = ""

[[resource]]
name = "archive"
store = "notes"
read_only = true
variant = "strict"

[store]
driver = "memory"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "restd.toml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return configFile
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/file.toml")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	configFile := writeConfig(t, `[general
	listen_addr = ":80"`)

	_, err := LoadConfig(configFile)
	if err == nil {
		t.Error("Expected error for invalid TOML")
	}
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, validTOML))
	if err != nil {
		t.Fatalf("Expected no error for valid config: %v", err)
	}

	if config.General.ListenAddr != "127.0.0.1:9090" {
		t.Errorf("Expected listen_addr to be '127.0.0.1:9090', got %s", config.General.ListenAddr)
	}
	if config.General.APIPrefix != DefaultAPIPrefix {
		t.Errorf("Expected default api_prefix, got %s", config.General.APIPrefix)
	}
	if len(config.Resources) != 2 {
		t.Fatalf("Expected 2 resources, got %d", len(config.Resources))
	}
	if config.Resources[0].Routes["show"] != "index" {
		t.Errorf("Expected show to be remapped, got %v", config.Resources[0].Routes)
	}
	if v, ok := config.Resources[0].Routes["deleteAll"]; !ok || v != "" {
		t.Errorf("Expected deleteAll to be unrouted, got %v", config.Resources[0].Routes)
	}
	if config.Resources[1].Collection() != "notes" {
		t.Errorf("Expected archive to use the notes collection, got %s", config.Resources[1].Collection())
	}

	if err := config.ValidateConfig(); err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}
}

func TestLoadConfig_RelativePath(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(configFile, []byte(validTOML), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	os.Chdir(tmpDir)

	config, err := LoadConfig("config.toml")
	if err != nil {
		t.Fatalf("Expected no error for relative path: %v", err)
	}
	if !filepath.IsAbs(config.GetConfigPath()) {
		t.Errorf("Expected absolute config path, got %s", config.GetConfigPath())
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	config, err := ParseConfig([]byte(`
[[resource]]
name = "notes"
`))
	if err != nil {
		t.Fatal(err)
	}

	if config.General.ListenAddr != DefaultListenAddr {
		t.Errorf("listen_addr = %s", config.General.ListenAddr)
	}
	if config.General.LogLevel != DefaultLogLevel {
		t.Errorf("log_level = %s", config.General.LogLevel)
	}
	if config.General.ShutdownTimeoutSeconds != DefaultShutdownTimeout {
		t.Errorf("shutdown_timeout_seconds = %d", config.General.ShutdownTimeoutSeconds)
	}
	if config.Dispatch.Format != "json" || config.Dispatch.Variant != "strict" {
		t.Errorf("dispatch = %+v", config.Dispatch)
	}
	if config.Store.Driver != DriverMemory {
		t.Errorf("store.driver = %s", config.Store.Driver)
	}
	if err := config.ValidateConfig(); err != nil {
		t.Errorf("Expected defaults to validate, got: %v", err)
	}
}

func TestSerializeConfig(t *testing.T) {
	config, err := ParseConfig([]byte(validTOML))
	if err != nil {
		t.Fatal(err)
	}

	buf, err := config.SerializeConfig()
	if err != nil {
		t.Fatalf("Failed to serialize config: %v", err)
	}

	content := buf.String()
	if !strings.Contains(content, "listen_addr = '127.0.0.1:9090'") {
		t.Errorf("Expected serialized listen_addr, got:\n%s", content)
	}

	roundTrip, err := ParseConfig(buf.Bytes())
	if err != nil {
		t.Fatalf("Failed to parse serialized config: %v", err)
	}
	if len(roundTrip.Resources) != 2 || roundTrip.Resources[0].Aliases[0] != "memos" {
		t.Errorf("Resources did not survive serialization: %+v", roundTrip.Resources)
	}
}

func TestUpgradeConfig_DeprecatedJSON(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantFormat bool
	}{
		{name: "json true", content: "[dispatch]\njson = true\n", wantFormat: true},
		{name: "json false", content: "[dispatch]\njson = false\n", wantFormat: false},
		{name: "body_format wins", content: "[dispatch]\njson = false\nbody_format = true\n", wantFormat: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseConfig([]byte(tt.content))
			if err != nil {
				t.Fatal(err)
			}
			if config.Dispatch.BodyFormat != tt.wantFormat {
				t.Errorf("body_format = %v, want %v", config.Dispatch.BodyFormat, tt.wantFormat)
			}
			if config.Dispatch.JSON != nil {
				t.Error("Expected deprecated field to be cleared")
			}
		})
	}

	config := &Config{Dispatch: &DispatchConfig{}}
	if upgraded, _ := config.UpgradeConfig(); upgraded {
		t.Error("Expected no upgrade without deprecated fields")
	}
}

func TestToRestConfig(t *testing.T) {
	config, err := ParseConfig([]byte(validTOML))
	if err != nil {
		t.Fatal(err)
	}
	config.General.MaxBodyBytes = 1024

	notes, err := config.ToRestConfig(config.Resources[0])
	if err != nil {
		t.Fatal(err)
	}
	if notes.Variant != rest.VariantDeleteAll {
		t.Errorf("Variant = %s", notes.Variant)
	}
	if notes.Format != response.FormatJSON || !notes.BodyFormat || notes.MaxBodyBytes != 1024 {
		t.Errorf("rest config = %+v", notes)
	}
	if notes.Envelope.StatusCode != "status" || !notes.Envelope.OmitEmptyBody {
		t.Errorf("Envelope = %+v", notes.Envelope)
	}
	if notes.Routes[rest.ActionShow] != "index" {
		t.Errorf("Routes = %v", notes.Routes)
	}
	if name, ok := notes.Routes[rest.ActionDeleteAll]; !ok || name != "" {
		t.Errorf("Expected deleteAll to be unrouted, got %v", notes.Routes)
	}

	archive, err := config.ToRestConfig(config.Resources[1])
	if err != nil {
		t.Fatal(err)
	}
	if archive.Variant != rest.VariantStrict {
		t.Errorf("Expected resource variant override, got %s", archive.Variant)
	}
	if archive.Routes != nil {
		t.Errorf("Expected no route remapping, got %v", archive.Routes)
	}

	if _, err := rest.New(nil, notes); err != nil {
		t.Errorf("Dispatcher rejected converted config: %v", err)
	}
}

func TestToRestConfig_UnknownAction(t *testing.T) {
	config := &Config{}
	_, err := config.ToRestConfig(&ResourceConfig{Name: "x", Routes: map[string]string{"list": "index"}})
	if err == nil {
		t.Error("Expected error for unknown action")
	}
}

func TestExampleConfigIsValid(t *testing.T) {
	config, err := LoadConfig(filepath.Join("..", "..", "..", "restd.example.toml"))
	if err != nil {
		t.Fatalf("Failed to load example config: %v", err)
	}
	if err := config.ValidateConfig(); err != nil {
		t.Fatalf("Example config is invalid: %v", err)
	}
	if len(config.Resources) != 3 {
		t.Errorf("Expected 3 resources, got %d", len(config.Resources))
	}
}

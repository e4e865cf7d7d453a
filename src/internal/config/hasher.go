package config

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

const hashCacheTTL = 5 * time.Minute

// ConfigHasher calculates MD5 hash of configuration state.
// It keeps a cached hash of the config file and the hash the server started with,
// so a running server can report that its configuration file has changed.
type ConfigHasher struct {
	configPath string

	// Current hash (from config file) with caching
	currentHash     string
	currentHashTime time.Time

	// Active hash (from running server)
	activeHash string

	mu sync.RWMutex
}

// NewConfigHasher creates a new config hasher
func NewConfigHasher(configPath string) *ConfigHasher {
	return &ConfigHasher{
		configPath: configPath,
	}
}

// GetCurrentConfigHash returns cached hash of current config file
// Automatically calls UpdateCurrentConfigHash() on cache miss
func (h *ConfigHasher) GetCurrentConfigHash() (string, error) {
	h.mu.RLock()
	if time.Since(h.currentHashTime) < hashCacheTTL && h.currentHash != "" {
		hash := h.currentHash
		h.mu.RUnlock()
		return hash, nil
	}
	h.mu.RUnlock()

	return h.UpdateCurrentConfigHash()
}

// UpdateCurrentConfigHash recalculates config hash and resets cache
func (h *ConfigHasher) UpdateCurrentConfigHash() (string, error) {
	cfg, err := LoadConfig(h.configPath)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	hash, err := CalculateHash(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentHash = hash
	h.currentHashTime = time.Now()

	return hash, nil
}

// GetActiveConfigHash returns hash of config that was active when the server started
func (h *ConfigHasher) GetActiveConfigHash() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.activeHash
}

// SetActiveConfigHash sets the hash of config when the server starts
func (h *ConfigHasher) SetActiveConfigHash(hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.activeHash = hash
}

// CalculateHash generates MD5 hash of the effective configuration.
// Resource order and alias order do not affect the hash; the store DSN does not take part.
func CalculateHash(config *Config) (string, error) {
	hashData := &ConfigHashData{
		General:   config.General,
		Dispatch:  config.Dispatch,
		Resources: buildResourceHashData(config),
	}
	if config.Store != nil {
		hashData.StoreDriver = config.Store.Driver
	}

	// encoding/json sorts map keys
	jsonBytes, err := json.Marshal(hashData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config data: %w", err)
	}

	hash := md5.Sum(jsonBytes)
	return hex.EncodeToString(hash[:]), nil
}

func buildResourceHashData(config *Config) []*ResourceHashData {
	result := make([]*ResourceHashData, len(config.Resources))
	for i, res := range config.Resources {
		result[i] = &ResourceHashData{
			Name:       res.Name,
			Aliases:    sortedStrings(res.Aliases),
			Routes:     res.Routes,
			Collection: res.Collection(),
			ReadOnly:   res.ReadOnly,
			Variant:    res.Variant,
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Helper types for hashing

// ConfigHashData represents the structure used for hashing
type ConfigHashData struct {
	General     *GeneralConfig      `json:"general"`
	Dispatch    *DispatchConfig     `json:"dispatch"`
	Resources   []*ResourceHashData `json:"resources"`
	StoreDriver string              `json:"store_driver"`
}

// ResourceHashData represents hashable resource configuration
type ResourceHashData struct {
	Name       string            `json:"name"`
	Aliases    []string          `json:"aliases"`
	Routes     map[string]string `json:"routes"`
	Collection string            `json:"collection"`
	ReadOnly   bool              `json:"read_only"`
	Variant    string            `json:"variant"`
}

// sortedStrings returns a sorted copy of a string slice
func sortedStrings(s []string) []string {
	result := make([]string, len(s))
	copy(result, s)
	sort.Strings(result)
	return result
}

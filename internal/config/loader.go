// Package config loads the JSON configuration document described in
// spec.md §6.1: a nested general.*/model[*] document controlling
// logging, concurrency, the two protocol front-ends, and the list of
// pool descriptors.
//
// The format-dispatch-by-extension shape (json/yaml/toml via the same
// library trio) is kept even though cmd/gatewayd only ever feeds it a
// .json document in practice — see DESIGN.md for the rationale.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"inferd/internal/common/fsutil"
	"inferd/pkg/types"
)

// Concurrency holds general.concurrency.* (spec.md §6.1).
type Concurrency struct {
	ModelPoolSize              int  `json:"model_pool_size" yaml:"model_pool_size" toml:"model_pool_size"`
	MaxConcurrentRequests      int  `json:"max_concurrent_requests" yaml:"max_concurrent_requests" toml:"max_concurrent_requests"`
	RequestTimeoutMillis       int  `json:"request_timeout_ms" yaml:"request_timeout_ms" toml:"request_timeout_ms"`
	ModelAcquireTimeoutMillis  int  `json:"model_acquire_timeout_ms" yaml:"model_acquire_timeout_ms" toml:"model_acquire_timeout_ms"`
	EnableConcurrencyMonitoring bool `json:"enable_concurrency_monitoring" yaml:"enable_concurrency_monitoring" toml:"enable_concurrency_monitoring"`
}

// GRPCServer holds general.grpc_server. HTTPServer below is a separate type
// because it adds the HTTP-only timeout fields.
type GRPCServer struct {
	Host string `json:"host" yaml:"host" toml:"host"`
	Port int    `json:"port" yaml:"port" toml:"port"`
}

type HTTPServer struct {
	Host              string `json:"host" yaml:"host" toml:"host"`
	Port              int    `json:"port" yaml:"port" toml:"port"`
	ConnectionTimeout int    `json:"connection_timeout" yaml:"connection_timeout" toml:"connection_timeout"`
	ReadTimeout       int    `json:"read_timeout" yaml:"read_timeout" toml:"read_timeout"`
}

// CORS holds general.cors, the opt-in go-chi/cors settings for
// the HTTP front-end. Disabled by default, matching internal/httpapi's
// "opt-in, no middleware added unless enabled" stance.
type CORS struct {
	Enabled        bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" toml:"allowed_headers"`
}

// General holds general.* (spec.md §6.1).
type General struct {
	LogToFile   bool        `json:"logToFile" yaml:"logToFile" toml:"logToFile"`
	LogFilePath string      `json:"logFilePath" yaml:"logFilePath" toml:"logFilePath"`
	LogLevel    int         `json:"logLevel" yaml:"logLevel" toml:"logLevel"`
	Concurrency Concurrency `json:"concurrency" yaml:"concurrency" toml:"concurrency"`
	GRPCServer  GRPCServer  `json:"grpc_server" yaml:"grpc_server" toml:"grpc_server"`
	HTTPServer  HTTPServer  `json:"http_server" yaml:"http_server" toml:"http_server"`
	CORS        CORS        `json:"cors" yaml:"cors" toml:"cors"`
}

// Model is one entry of model[*] (spec.md §6.1). Unmarshals directly into
// pkg/types.PoolDescriptor's shape, field for field.
type Model struct {
	Name         string  `json:"name" yaml:"name" toml:"name"`
	ModelPath    string  `json:"model_path" yaml:"model_path" toml:"model_path"`
	ModelType    int     `json:"model_type" yaml:"model_type" toml:"model_type"`
	ObjectThresh float64 `json:"objectThresh" yaml:"objectThresh" toml:"objectThresh"`
}

// Config is the root configuration document.
type Config struct {
	General General `json:"general" yaml:"general" toml:"general"`
	Model   []Model `json:"model" yaml:"model" toml:"model"`
}

// Defaults returns the hard-coded fallback used when no document is
// supplied or the document fails to parse (spec.md §6.1: "pools simply
// won't be created").
func Defaults() Config {
	return Config{
		General: General{
			LogToFile:   false,
			LogFilePath: "logs",
			LogLevel:    1, // INFO
			Concurrency: Concurrency{
				ModelPoolSize:              2,
				MaxConcurrentRequests:      32,
				RequestTimeoutMillis:       10000,
				ModelAcquireTimeoutMillis:  5000,
				EnableConcurrencyMonitoring: true,
			},
			GRPCServer: GRPCServer{Host: "0.0.0.0", Port: 9000},
			HTTPServer: HTTPServer{Host: "0.0.0.0", Port: 8080, ConnectionTimeout: 30, ReadTimeout: 15},
			CORS:       CORS{Enabled: false},
		},
	}
}

// Load reads a configuration document from path, dispatching on file
// extension. A missing file, unreadable file, or parse error returns
// Defaults() rather than a zero Config, matching spec.md §6.1's
// fallback policy; the error is still returned so the caller can log it.
func Load(path string) (Config, error) {
	if path == "" {
		return Defaults(), fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return Defaults(), fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return Defaults(), err
	}
	return cfg, nil
}

// ValidationWarning records why one model[*] entry was dropped.
type ValidationWarning struct {
	Name string
	Err  error
}

// PoolDescriptors validates and converts Model entries into
// types.PoolDescriptor, per spec.md §6.1's per-entry validation rules
// (model_type>0, objectThresh∈[0,1], model_path existing). An invalid
// entry is dropped with a warning rather than failing the whole document,
// mirroring the registry's own partial-success policy.
func (c Config) PoolDescriptors() ([]types.PoolDescriptor, []ValidationWarning) {
	var out []types.PoolDescriptor
	var warnings []ValidationWarning

	for _, m := range c.Model {
		if m.ModelType <= 0 {
			warnings = append(warnings, ValidationWarning{Name: m.Name, Err: fmt.Errorf("model_type must be > 0, got %d", m.ModelType)})
			continue
		}
		if m.ObjectThresh < 0 || m.ObjectThresh > 1 {
			warnings = append(warnings, ValidationWarning{Name: m.Name, Err: fmt.Errorf("objectThresh must be in [0,1], got %v", m.ObjectThresh)})
			continue
		}
		path, err := fsutil.ExpandHome(m.ModelPath)
		if err != nil {
			warnings = append(warnings, ValidationWarning{Name: m.Name, Err: err})
			continue
		}
		if !fsutil.PathExists(path) {
			warnings = append(warnings, ValidationWarning{Name: m.Name, Err: fmt.Errorf("model_path does not exist: %s", path)})
			continue
		}
		out = append(out, types.PoolDescriptor{
			Name:         m.Name,
			ModelPath:    path,
			ModelType:    m.ModelType,
			ObjectThresh: m.ObjectThresh,
		})
	}
	return out, warnings
}

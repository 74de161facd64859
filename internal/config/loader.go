package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Load reads a run configuration from a YAML or JSON file (decided by
// extension), applies defaults, and validates it.
//
// JSON documents are additionally checked against the embedded JSON Schema
// before decoding, so schema violations surface with their JSON pointer
// rather than as a half-decoded struct.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg RunConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := validateJSON(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config extension: %s", filepath.Ext(path))
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateJSON(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("run.schema.json", strings.NewReader(runSchema)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	schema, err := compiler.Compile("run.schema.json")
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}

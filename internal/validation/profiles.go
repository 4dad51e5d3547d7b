package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed profile.schema.json
var profileSchemaJSON []byte

var (
	profileSchema     *jsonschema.Schema
	profileSchemaErr  error
	profileSchemaOnce sync.Once
)

func compiledProfileSchema() (*jsonschema.Schema, error) {
	profileSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("profile.schema.json", bytes.NewReader(profileSchemaJSON)); err != nil {
			profileSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		profileSchema, profileSchemaErr = compiler.Compile("profile.schema.json")
		if profileSchemaErr != nil {
			profileSchemaErr = fmt.Errorf("compile schema: %w", profileSchemaErr)
		}
	})
	return profileSchema, profileSchemaErr
}

// DecodeProfiles parses a profile document holding a single profile or an
// array of them. YAML is accepted when name has a .yaml/.yml extension or the
// content does not look like JSON. Every profile is checked against the
// embedded schema and ValidateProfile; failures are *parsererror.ValidationError.
func DecodeProfiles(data []byte, name string) ([]models.MappingProfile, error) {
	doc, err := toJSON(data, name)
	if err != nil {
		return nil, &parsererror.ValidationError{FilePath: name, Reason: err.Error()}
	}

	schema, err := compiledProfileSchema()
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, &parsererror.ValidationError{FilePath: name, Reason: err.Error()}
	}
	if err := schema.Validate(v); err != nil {
		return nil, &parsererror.ValidationError{FilePath: name, Reason: "document does not match schema: " + err.Error()}
	}

	var profiles []models.MappingProfile
	if _, isArray := v.([]any); isArray {
		err = json.Unmarshal(doc, &profiles)
	} else {
		var p models.MappingProfile
		err = json.Unmarshal(doc, &p)
		profiles = []models.MappingProfile{p}
	}
	if err != nil {
		return nil, &parsererror.ValidationError{FilePath: name, Reason: err.Error()}
	}

	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if err := ValidateProfile(p); err != nil {
			return nil, &parsererror.ValidationError{FilePath: name, Reason: err.Error()}
		}
		if seen[p.Name] {
			return nil, &parsererror.ValidationError{FilePath: name, Reason: fmt.Sprintf("profile %q defined twice", p.Name)}
		}
		seen[p.Name] = true
	}
	return profiles, nil
}

func toJSON(data []byte, name string) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("document is empty")
	}
	ext := strings.ToLower(filepath.Ext(name))
	looksJSON := trimmed[0] == '{' || trimmed[0] == '['
	if looksJSON && ext != ".yaml" && ext != ".yml" {
		return trimmed, nil
	}

	var v any
	if err := yaml.Unmarshal(trimmed, &v); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert YAML: %w", err)
	}
	return out, nil
}

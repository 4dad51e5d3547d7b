package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/validation"

	"gopkg.in/yaml.v3"
)

// FileStore loads and saves the YAML rule files and profile documents that
// live next to the database.
type FileStore struct {
	MerchantPatternsFile string
	RulesFile            string
	logger               logging.Logger
}

// NewFileStore creates a FileStore. Empty file names fall back to
// merchant_patterns.yaml and rules.yaml.
func NewFileStore(merchantPatternsFile, rulesFile string, logger logging.Logger) *FileStore {
	if merchantPatternsFile == "" {
		merchantPatternsFile = "merchant_patterns.yaml"
	}
	if rulesFile == "" {
		rulesFile = "rules.yaml"
	}
	return &FileStore{
		MerchantPatternsFile: merchantPatternsFile,
		RulesFile:            rulesFile,
		logger:               logging.OrDefault(logger),
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *FileStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "ledger-import", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadMerchantRules reads the ordered merchant pattern table. A missing file
// yields nil so the built-in table stays in use.
func (s *FileStore) LoadMerchantRules() ([]models.MerchantRule, error) {
	data, path, err := s.read(s.MerchantPatternsFile)
	if err != nil || data == nil {
		return nil, err
	}

	var rules []models.MerchantRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		// Also accept the full rule-table shape with a merchants key.
		var tables models.RuleTables
		if err2 := yaml.Unmarshal(data, &tables); err2 != nil {
			return nil, fmt.Errorf("error parsing merchant patterns %s: %w", path, err)
		}
		rules = tables.Merchants
	}

	s.logger.Debug("Loaded merchant patterns",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(rules)})
	return rules, nil
}

// LoadRuleTables reads the subcategory and payoree rule tables. A missing
// file yields empty tables.
func (s *FileStore) LoadRuleTables() (models.RuleTables, error) {
	var tables models.RuleTables
	data, path, err := s.read(s.RulesFile)
	if err != nil || data == nil {
		return tables, err
	}
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return tables, fmt.Errorf("error parsing rule tables %s: %w", path, err)
	}

	s.logger.Debug("Loaded rule tables",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(tables.Subcategories) + len(tables.Payorees)})
	return tables, nil
}

// SaveRuleTables writes the rule tables, creating the file under database/
// when it does not exist yet.
func (s *FileStore) SaveRuleTables(tables models.RuleTables) error {
	filePath, err := s.FindConfigFile(s.RulesFile)
	if errors.Is(err, os.ErrNotExist) {
		filePath = s.RulesFile
		if !filepath.IsAbs(filePath) {
			filePath = filepath.Join("database", filePath)
		}
	} else if err != nil {
		return fmt.Errorf("error resolving rules file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	data, err := yaml.Marshal(tables)
	if err != nil {
		return fmt.Errorf("error marshaling rule tables: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("error writing rule tables: %w", err)
	}

	s.logger.Debug("Saved rule tables", logging.Field{Key: logging.FieldFile, Value: filePath})
	return nil
}

// LoadProfiles reads and validates a JSON or YAML profile document.
func (s *FileStore) LoadProfiles(path string) ([]models.MappingProfile, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("error reading profile file: %w", err)
	}
	return validation.DecodeProfiles(data, path)
}

// read returns nil data without error when the file cannot be found.
func (s *FileStore) read(filename string) ([]byte, string, error) {
	path, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("Configuration file not found", logging.Field{Key: logging.FieldFile, Value: filename})
			return nil, filename, nil
		}
		return nil, filename, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- resolved from configured locations
	if err != nil {
		return nil, path, fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, path, nil
}

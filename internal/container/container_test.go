package container

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/ledger-import/internal/config"
	"fjacquet/ledger-import/internal/importer"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/report"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	c := &config.Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Database.Driver = "sqlite"
	c.Database.DSN = filepath.Join(dir, "ledger.db")
	c.Database.MaxConns = 1
	c.CSV.Delimiter = ","
	c.Categorization.MerchantPatternsFile = filepath.Join(dir, "merchant_patterns.yaml")
	c.Categorization.RulesFile = filepath.Join(dir, "rules.yaml")
	c.Categorization.LearningEnabled = true
	c.Report.Format = "text"
	return c
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestNewContainer(t *testing.T) {
	_, err := NewContainer(context.Background(), nil, nil)
	assert.EqualError(t, err, "configuration cannot be nil")

	c, err := NewContainer(context.Background(), testConfig(t), logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close()) })

	assert.NotNil(t, c.GetLogger())
	assert.NotNil(t, c.GetConfig())
	assert.NotNil(t, c.GetStore())
	assert.NotNil(t, c.GetFileStore())
	assert.NotNil(t, c.GetCategorizer())
	assert.NotNil(t, c.GetImporter())
	assert.NotNil(t, c.GetReporter())
	require.NoError(t, c.GetStore().HealthCheck(context.Background()))
}

func TestNewContainer_LoadsRuleFiles(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.Categorization.MerchantPatternsFile, `
- pattern: "BLUE BOTTLE"
  key: "BLUE BOTTLE COFFEE"
`)
	writeFile(t, cfg.Categorization.RulesFile, `
subcategories:
  - pattern: "BLUE BOTTLE"
    category: "Food"
    subcategory: "Coffee"
payorees:
  - pattern: "BLUE BOTTLE"
    payoree: "Blue Bottle"
`)

	c, err := NewContainer(context.Background(), cfg, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close()) })

	cat := c.GetCategorizer()
	assert.Equal(t, "BLUE BOTTLE COFFEE", cat.MerchantKey("BLUE BOTTLE #42 OAKLAND"))
	assert.Equal(t, "STARBUCKS", cat.MerchantKey("STARBUCKS STORE 123"), "built-in patterns stay active")

	s := cat.Suggest(context.Background(), "BLUE BOTTLE #42 OAKLAND", decimal.RequireFromString("-5.50"))
	assert.Equal(t, models.Suggestions{Subcategory: "Coffee", Payoree: "Blue Bottle"}, s)

	parent, ok := cat.SuggestCategoryFor("Coffee")
	assert.True(t, ok)
	assert.Equal(t, "Food", parent)
}

func TestNewContainer_InvalidMerchantPattern(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.Categorization.MerchantPatternsFile, `
- pattern: "(["
  key: "BROKEN"
  regex: true
`)

	_, err := NewContainer(context.Background(), cfg, logging.NewMockLogger())
	assert.ErrorContains(t, err, "invalid merchant patterns")
}

func TestNewContainer_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	_, err := NewContainer(context.Background(), cfg, logging.NewMockLogger())
	assert.ErrorContains(t, err, "failed to open store")
}

func TestNewContainer_LearningToggle(t *testing.T) {
	tests := []struct {
		name       string
		learning   bool
		strategies []string
	}{
		{name: "enabled", learning: true, strategies: []string{"Learned", "Keyword"}},
		{name: "disabled", learning: false, strategies: []string{"Keyword"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Categorization.LearningEnabled = tt.learning

			c, err := NewContainer(context.Background(), cfg, logging.NewMockLogger())
			require.NoError(t, err)
			t.Cleanup(func() { require.NoError(t, c.Close()) })

			_, results := c.GetCategorizer().Explain(context.Background(), models.TargetSubcategory, "STARBUCKS 123", decimal.NewFromInt(-4))
			names := make([]string, 0, len(results.Results))
			for _, r := range results.Results {
				names = append(names, r.Strategy)
			}
			assert.Equal(t, tt.strategies, names)
		})
	}
}

func TestContainer_ImporterRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	cfg.Import.DateFormats = []string{"02.01.2006"}

	c, err := NewContainer(context.Background(), cfg, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close()) })

	ctx := context.Background()
	svc := c.GetImporter()
	require.NoError(t, svc.ImportProfiles(ctx, []models.MappingProfile{{
		Name:      "swiss",
		ColumnMap: map[string]string{"Datum": "date", "Betrag": "amount", "Text": "description"},
	}}))

	batch, err := svc.Upload(ctx, "swiss.csv", strings.NewReader("Datum,Betrag,Text\n11.07.2025,-4.50,STARBUCKS 123\n"), "")
	require.NoError(t, err)

	preview, err := svc.ApplyMapping(ctx, batch.ID, importer.MappingOptions{})
	require.NoError(t, err)
	assert.Equal(t, "swiss", preview.Profile)
	assert.Equal(t, 1, preview.Stats.Mapped)

	res, err := svc.Commit(ctx, batch.ID, "CHK-1")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Imported)
}

func TestContainer_WithReportFormat(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(t), logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close()) })

	jsonContainer := c.WithReportFormat(report.FormatJSON)
	assert.NotSame(t, c.GetReporter(), jsonContainer.GetReporter())
	assert.Same(t, c.GetStore(), jsonContainer.GetStore())
}

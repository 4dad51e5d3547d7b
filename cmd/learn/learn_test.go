package learn

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-import/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setFlags(t *testing.T, key, desc, sub, pay, path string) {
	t.Helper()
	merchantKey, description, subcategory, payoree, file = key, desc, sub, pay, path
	t.Cleanup(func() { merchantKey, description, subcategory, payoree, file = "", "", "", "", "" })
}

func TestCorrectionRows(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		desc    string
		sub     string
		pay     string
		want    []common.CorrectionCSVRow
		wantErr string
	}{
		{
			name: "merchant key with both targets",
			key:  "STARBUCKS", sub: "Coffee", pay: "Starbucks",
			want: []common.CorrectionCSVRow{
				{MerchantKey: "STARBUCKS", Kind: "subcategory", Target: "Coffee"},
				{MerchantKey: "STARBUCKS", Kind: "payoree", Target: "Starbucks"},
			},
		},
		{
			name: "description with payoree",
			desc: "LYFT RIDE 9", pay: "Lyft",
			want: []common.CorrectionCSVRow{{Description: "LYFT RIDE 9", Kind: "payoree", Target: "Lyft"}},
		},
		{name: "no source", sub: "Coffee", wantErr: "one of --merchant-key"},
		{name: "no target", key: "STARBUCKS", wantErr: "--subcategory or --payoree is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setFlags(t, tt.key, tt.desc, tt.sub, tt.pay, "")
			rows, err := correctionRows()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestCorrectionRows_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"merchant_key,description,kind,target\n"+
			"STARBUCKS,,subcategory,Coffee\n"+
			",LYFT RIDE 9,payoree,Lyft\n"), 0600))
	setFlags(t, "", "", "", "", path)

	rows, err := correctionRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "STARBUCKS", rows[0].MerchantKey)
	assert.Equal(t, "LYFT RIDE 9", rows[1].Description)
	assert.Equal(t, "payoree", rows[1].Kind)
}

func TestLearnCommand_Flags(t *testing.T) {
	for _, name := range []string{"merchant-key", "description", "subcategory", "payoree", "file"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), name)
	}
	assert.Error(t, Cmd.Args(Cmd, []string{"extra"}))
}

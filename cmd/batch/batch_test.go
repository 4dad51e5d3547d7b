package batch_test

import (
	"testing"

	"fjacquet/ledger-import/cmd/batch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCommand_Metadata(t *testing.T) {
	assert.Equal(t, "batch", batch.Cmd.Use)
	assert.Contains(t, batch.Cmd.Short, "import batches")
}

func TestBatchCommand_Subcommands(t *testing.T) {
	tests := []struct {
		name string
		use  string
	}{
		{name: "show", use: "show <batch-id>"},
		{name: "list", use: "list"},
		{name: "delete", use: "delete <batch-id>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, _, err := batch.Cmd.Find([]string{tt.name})
			require.NoError(t, err)
			assert.Equal(t, tt.use, sub.Use)
			assert.NotNil(t, sub.RunE)
		})
	}
}

func TestBatchCommand_Args(t *testing.T) {
	show, _, err := batch.Cmd.Find([]string{"show"})
	require.NoError(t, err)
	assert.Error(t, show.Args(show, nil))
	assert.NoError(t, show.Args(show, []string{"b-1"}))

	list, _, err := batch.Cmd.Find([]string{"list"})
	require.NoError(t, err)
	assert.Error(t, list.Args(list, []string{"extra"}))
}

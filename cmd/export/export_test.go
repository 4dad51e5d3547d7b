package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateFlag(t *testing.T) {
	got, err := parseDateFlag("since", "")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseDateFlag("since", "2025-07-11")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, time.July, 11, 0, 0, 0, 0, time.UTC), got.UTC())

	_, err = parseDateFlag("until", "11/07/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --until")
}

func TestExportCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{name: "output", shorthand: "o"},
		{name: "account", shorthand: "a"},
		{name: "source"},
		{name: "since"},
		{name: "until"},
		{name: "delimiter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := Cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
	assert.Error(t, Cmd.Args(Cmd, []string{"extra"}))
}

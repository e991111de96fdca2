package cmdutil

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustGet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("name", "", "")
	cmd.Flags().Bool("dry-run", false, "")
	cmd.Flags().Int("limit", 0, "")
	cmd.Flags().StringSlice("tags", nil, "")
	cmd.Flags().Duration("ttl", 0, "")
	require.NoError(t, cmd.ParseFlags([]string{"--name", "x", "--dry-run", "--limit", "3", "--tags", "a,b", "--ttl", "2s"}))

	assert.Equal(t, "x", MustGetString(cmd, "name"))
	assert.True(t, MustGetBool(cmd, "dry-run"))
	assert.Equal(t, 3, MustGetInt(cmd, "limit"))
	assert.Equal(t, []string{"a", "b"}, MustGetStringSlice(cmd, "tags"))
	assert.Equal(t, 2*time.Second, MustGetDuration(cmd, "ttl"))

	assert.Panics(t, func() { MustGetString(cmd, "missing") })
	assert.Panics(t, func() { MustGetInt(cmd, "name") })
}

// Package cmdutil provides flag helpers shared by toolhub commands.
//
// The MustGet functions read flags the calling package defined itself, so
// a lookup failure is a programming error and panics.
package cmdutil

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func mustGet[T any](cmd *cobra.Command, name string, get func(string) (T, error)) T {
	val, err := get(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q on %s: %v", name, cmd.Name(), err))
	}
	return val
}

// MustGetString returns a string flag.
func MustGetString(cmd *cobra.Command, name string) string {
	return mustGet(cmd, name, cmd.Flags().GetString)
}

// MustGetBool returns a bool flag.
func MustGetBool(cmd *cobra.Command, name string) bool {
	return mustGet(cmd, name, cmd.Flags().GetBool)
}

// MustGetInt returns an int flag.
func MustGetInt(cmd *cobra.Command, name string) int {
	return mustGet(cmd, name, cmd.Flags().GetInt)
}

// MustGetStringSlice returns a string slice flag.
func MustGetStringSlice(cmd *cobra.Command, name string) []string {
	return mustGet(cmd, name, cmd.Flags().GetStringSlice)
}

// MustGetDuration returns a duration flag.
func MustGetDuration(cmd *cobra.Command, name string) time.Duration {
	return mustGet(cmd, name, cmd.Flags().GetDuration)
}

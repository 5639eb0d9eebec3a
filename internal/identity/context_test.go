package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoles(t *testing.T) {
	require.Equal(t, []string{"USER"}, ParseRoles(""))
	require.Equal(t, []string{"USER"}, ParseRoles("   "))
	require.Equal(t, []string{"USER", "HR"}, ParseRoles("user, hr"))
	require.Equal(t, []string{"MANAGER"}, ParseRoles(" manager "))
	require.Equal(t, []string{"USER"}, ParseRoles(",,"))
}

func TestContextRoundTrip(t *testing.T) {
	id := &Context{UserID: "u-1", Username: "john.doe", Roles: []string{"USER"}}
	ctx := WithContext(context.Background(), id)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, id, got)

	_, ok = FromContext(context.Background())
	require.False(t, ok)
}

func TestHasRole(t *testing.T) {
	id := &Context{Roles: []string{"USER", "HR"}}
	require.True(t, id.HasRole("HR"))
	require.False(t, id.HasRole("MANAGER"))
}

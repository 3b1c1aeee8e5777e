package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryWorkspaceRepository{}, s)

	s, err = Open(ctx, Config{Backend: BackendSupabase, SupabaseURL: "https://x.supabase.co", SupabaseKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &SupabaseWorkspaceRepository{}, s)
	assert.NoError(t, s.Close())

	_, err = Open(ctx, Config{Backend: BackendSupabase})
	assert.Error(t, err)

	_, err = Open(ctx, Config{Backend: "mongo"})
	assert.EqualError(t, err, `unknown store backend "mongo"`)

	_, err = Open(ctx, Config{Backend: BackendPostgres, DSN: "some=random"})
	assert.ErrorContains(t, err, "ping postgres")
}

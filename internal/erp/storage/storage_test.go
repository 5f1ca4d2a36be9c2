package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledStore(t *testing.T) {
	ctx := context.Background()
	var s ObjectStore = Disabled{}

	path, err := s.Put(ctx, "backups/a.json", strings.NewReader("{}"), 2, "application/json")
	require.NoError(t, err)
	assert.Equal(t, "local:backups/a.json", path)

	_, err = s.Get(ctx, path)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NoError(t, s.Remove(ctx, path))
}

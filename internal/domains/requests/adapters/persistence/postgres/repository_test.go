package postgres

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRepository_NilDBSkipsMigration(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	repo := NewRepository(nil, WithLogger(logger))

	require.NotNil(t, repo)
	require.Same(t, logger, repo.logger)
	require.Empty(t, buf.String())
}

package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

func TestHistoryCmd_NoService(t *testing.T) {
	SetServices(nil)

	_, err := executeCommand(t, "history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search log service not configured")
}

func TestHistoryCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No searches yet.")
}

func TestHistoryCmd_ListsNewestFirst(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()
	ctx := context.Background()
	_, err := ts.searchLog.Record(ctx, []string{"Overtime"}, "", "https://example.com/search/tags/overtime")
	require.NoError(t, err)
	_, err = ts.searchLog.Record(ctx, nil, "leave", "https://example.com/search/leave")
	require.NoError(t, err)
	_, err = ts.searchLog.Record(ctx, nil, "", "https://example.com/?s=")
	require.NoError(t, err)

	out, err := executeCommand(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, `"leave"`)
	assert.Contains(t, out, "(empty search)")
	assert.Less(t, strings.Index(out, "/?s="), strings.Index(out, "/search/leave"))
	assert.Less(t, strings.Index(out, "/search/leave"), strings.Index(out, "/search/tags/overtime"))
}

func TestHistoryCmd_LimitAndJSON(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()
	ctx := context.Background()
	for _, q := range []string{"a", "b", "c"} {
		_, err := ts.searchLog.Record(ctx, nil, q, "https://example.com/search/"+q)
		require.NoError(t, err)
	}

	out, err := executeCommand(t, "history", "--limit", "2", "--json")

	require.NoError(t, err)
	var entries []domain.SearchLogEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Query)
	assert.NotEmpty(t, entries[0].ID)
}

package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

func TestFilterCmd_Use(t *testing.T) {
	assert.Equal(t, "filter [query]", filterCmd.Use)
}

func TestFilterCmd_TooManyArgs(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := executeCommand(t, "filter", "a", "b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg(s)")
}

func TestFilterCmd_NoCatalog(t *testing.T) {
	SetServices(nil)

	_, err := executeCommand(t, "filter", "wage")

	assert.ErrorIs(t, err, errCatalogNotConfigured)
}

func TestFilterCmd_RanksMatches(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand(t, "filter", "wage")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Wage & Hour")
	assert.Contains(t, lines[1], "Minimum Wage")
}

func TestFilterCmd_Selected(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand(t, "filter", "wage", "--selected", "Wage & Hour")

	require.NoError(t, err)
	assert.Contains(t, out, "Selected: Wage & Hour")
	assert.Contains(t, out, "Minimum Wage")
	assert.Equal(t, 1, strings.Count(out, "Wage & Hour"))
}

func TestFilterCmd_NoMatches(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand(t, "filter", "zzz")

	require.NoError(t, err)
	assert.Contains(t, out, "No matching tags.")
}

func TestFilterCmd_Limit(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand(t, "filter", "--limit", "1")

	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)
}

func TestFilterCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand(t, "filter", "over", "--json")

	require.NoError(t, err)
	var result domain.FilterResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "over", result.Query)
	assert.Equal(t, []string{"Overtime"}, result.IDs())
}

func TestFilterCmd_Remote(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	searcher := &mockSearcher{results: []domain.RemoteResult{{Text: "Overtime Pay", IsParent: true}}}
	newPredictor = predictorFor(searcher)

	out, err := executeCommand(t, "filter", "overtime", "--remote")

	require.NoError(t, err)
	assert.Equal(t, []string{"overtime"}, searcher.queries)
	assert.Contains(t, out, "Overtime Pay (parent)")
}

func TestFilterCmd_RemoteShortQuery(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	searcher := &mockSearcher{results: []domain.RemoteResult{{Text: "Overtime Pay"}}}
	newPredictor = predictorFor(searcher)

	out, err := executeCommand(t, "filter", "ov", "--remote")

	require.NoError(t, err)
	assert.Empty(t, searcher.queries)
	assert.NotContains(t, out, "Overtime Pay")
}

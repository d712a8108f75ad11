package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

func TestCatalogStore_SaveTag_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore()

	for _, text := range []string{"Wage & Hour", "Overtime", "Overtime Pay"} {
		require.NoError(t, store.SaveTag(ctx, domain.NewTagCandidate(text)))
	}

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "Wage & Hour", tags[0].ID)
	assert.Equal(t, "Overtime", tags[1].ID)
	assert.Equal(t, "Overtime Pay", tags[2].ID)
}

func TestCatalogStore_SaveTag_UpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore()
	require.NoError(t, store.SaveTag(ctx, domain.NewTagCandidate("Overtime")))
	require.NoError(t, store.SaveTag(ctx, domain.NewTagCandidate("Bonus")))

	updated := domain.NewTagCandidate("OVERTIME")
	updated.IsParent = true
	require.NoError(t, store.SaveTag(ctx, updated))

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "OVERTIME", tags[0].ID)
	assert.True(t, tags[0].IsParent)
}

func TestCatalogStore_GetTag(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore()
	require.NoError(t, store.SaveTag(ctx, domain.NewTagCandidate("Wage & Hour")))

	tag, err := store.GetTag(ctx, "  wage & hour ")
	require.NoError(t, err)
	assert.Equal(t, "Wage & Hour", tag.ID)

	_, err = store.GetTag(ctx, "Bonus")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStore_DeleteTag_RemovesAliases(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore()
	require.NoError(t, store.SaveTag(ctx, domain.NewTagCandidate("Wage & Hour")))
	require.NoError(t, store.SaveTag(ctx, domain.NewTagCandidate("Overtime")))
	require.NoError(t, store.SaveAlias(ctx, domain.Alias{Child: "Unpaid Overtime", Parent: "Wage & Hour"}))
	require.NoError(t, store.SaveAlias(ctx, domain.Alias{Child: "Comp Time", Parent: "Overtime"}))

	require.NoError(t, store.DeleteTag(ctx, "wage & hour"))

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	aliases, err := store.ListAliases(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Alias{{Child: "Comp Time", Parent: "Overtime"}}, aliases)

	assert.ErrorIs(t, store.DeleteTag(ctx, "wage & hour"), domain.ErrNotFound)
}

func TestCatalogStore_SaveAlias_Replaces(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore()
	require.NoError(t, store.SaveAlias(ctx, domain.Alias{Child: "Unpaid Overtime", Parent: "Overtime"}))
	require.NoError(t, store.SaveAlias(ctx, domain.Alias{Child: "unpaid overtime", Parent: "Wage & Hour"}))
	require.NoError(t, store.SaveAlias(ctx, domain.Alias{Child: "Back Pay", Parent: "Wage & Hour"}))

	aliases, err := store.ListAliases(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Alias{
		{Child: "Back Pay", Parent: "Wage & Hour"},
		{Child: "unpaid overtime", Parent: "Wage & Hour"},
	}, aliases)
}

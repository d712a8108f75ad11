package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

var tagsListJSON bool

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage the tag catalog",
	Long: `List and edit the catalog tags and child to parent aliases that seed
every search session.`,
	RunE: runTagsList,
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog tags and aliases",
	Args:  cobra.NoArgs,
	RunE:  runTagsList,
}

var tagsAddCmd = &cobra.Command{
	Use:   "add [tag...]",
	Short: "Add tags to the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTagsAdd,
}

var tagsRemoveCmd = &cobra.Command{
	Use:   "remove [tag]",
	Short: "Remove a tag and its aliases",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagsRemove,
}

var tagsAliasCmd = &cobra.Command{
	Use:   "alias [child] [parent]",
	Short: "Map a child tag onto a parent tag",
	Long: `Maps a child tag onto a parent tag. Selecting the child then selects
the parent, and the child is hidden while its parent is selected.`,
	Args: cobra.ExactArgs(2),
	RunE: runTagsAlias,
}

var tagsImportCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Merge a YAML catalog file into the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagsImport,
}

var tagsExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the catalog to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagsExport,
}

func init() {
	tagsListCmd.Flags().BoolVar(&tagsListJSON, "json", false, "output the catalog as JSON")
	tagsCmd.AddCommand(tagsListCmd)
	tagsCmd.AddCommand(tagsAddCmd)
	tagsCmd.AddCommand(tagsRemoveCmd)
	tagsCmd.AddCommand(tagsAliasCmd)
	tagsCmd.AddCommand(tagsImportCmd)
	tagsCmd.AddCommand(tagsExportCmd)
	rootCmd.AddCommand(tagsCmd)
}

func runTagsList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errCatalogNotConfigured
	}

	catalog, err := catalogService.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	aliases := sortedAliases(catalog.Aliases)

	if tagsListJSON {
		doc := struct {
			Tags    []domain.TagCandidate `json:"tags"`
			Aliases []domain.Alias        `json:"aliases"`
		}{Tags: catalog.Tags, Aliases: aliases}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal catalog: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(catalog.Tags) == 0 {
		cmd.Println("No tags in the catalog.")
		cmd.Println("Add one with: tagsearch tags add [tag]")
		return nil
	}

	cmd.Printf("Tags (%d):\n", len(catalog.Tags))
	for _, tag := range catalog.Tags {
		cmd.Printf("  %s\n", tag.Label())
	}
	if len(aliases) > 0 {
		cmd.Println()
		cmd.Printf("Aliases (%d):\n", len(aliases))
		for _, a := range aliases {
			cmd.Printf("  %s -> %s\n", a.Child, a.Parent)
		}
	}
	return nil
}

func runTagsAdd(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errCatalogNotConfigured
	}

	for _, text := range args {
		err := catalogService.AddTag(cmd.Context(), text)
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			cmd.Printf("Tag %q already exists\n", text)
		case err != nil:
			return fmt.Errorf("failed to add tag: %w", err)
		default:
			cmd.Printf("Added tag %q\n", text)
		}
	}
	return nil
}

func runTagsRemove(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errCatalogNotConfigured
	}

	if err := catalogService.RemoveTag(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove tag: %w", err)
	}
	cmd.Printf("Removed tag %q\n", args[0])
	return nil
}

func runTagsAlias(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errCatalogNotConfigured
	}

	if err := catalogService.AddAlias(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to add alias: %w", err)
	}
	cmd.Printf("Aliased %q -> %q\n", args[0], args[1])
	return nil
}

func runTagsImport(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errCatalogNotConfigured
	}

	tags, aliases, err := catalogService.Import(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to import catalog: %w", err)
	}
	cmd.Printf("Imported %d tags and %d aliases from %s\n", tags, aliases, args[0])
	return nil
}

func runTagsExport(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errCatalogNotConfigured
	}

	tags, aliases, err := catalogService.Export(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to export catalog: %w", err)
	}
	cmd.Printf("Exported %d tags and %d aliases to %s\n", tags, aliases, args[0])
	return nil
}

func sortedAliases(m map[string]string) []domain.Alias {
	aliases := make([]domain.Alias, 0, len(m))
	for child, parent := range m {
		aliases = append(aliases, domain.Alias{Child: child, Parent: parent})
	}
	sort.Slice(aliases, func(i, j int) bool {
		return aliases[i].Child < aliases[j].Child
	})
	return aliases
}

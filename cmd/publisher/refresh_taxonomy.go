package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rekrytera/jobad-publisher/internal/types"
)

var refreshType string

var refreshTaxonomyCmd = &cobra.Command{
	Use:   "refresh-taxonomy",
	Short: "Replace stored taxonomy vocabularies from the source API",
	Long:  `Fetch every concept type from the taxonomy source and replace the stored vocabulary type by type. A failing type keeps its prior data.`,
	RunE:  runRefreshTaxonomy,
}

func init() {
	refreshTaxonomyCmd.Flags().StringVar(&refreshType, "type", "", "Refresh a single concept type instead of all")
	rootCmd.AddCommand(refreshTaxonomyCmd)
}

func runRefreshTaxonomy(cmd *cobra.Command, _ []string) error {
	d, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.close()

	if refreshType != "" {
		count, err := d.refresher.RefreshType(cmd.Context(), types.ConceptType(refreshType))
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d concepts\n", refreshType, count)
		return nil
	}

	result := d.refresher.RefreshAll(cmd.Context())
	for typ, count := range result.Counts {
		fmt.Printf("%s: %d concepts\n", typ, count)
	}
	for typ, err := range result.Errors {
		fmt.Printf("%s: FAILED: %v\n", typ, err)
	}
	if result.Failed() {
		return fmt.Errorf("%d taxonomy type(s) failed to refresh", len(result.Errors))
	}
	return nil
}

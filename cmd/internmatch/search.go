package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/internmatch/internal/ingestion"
	"github.com/jonathan/internmatch/internal/observability"
	"github.com/jonathan/internmatch/internal/recommend"
	"github.com/jonathan/internmatch/internal/types"
)

var (
	searchFile     string
	searchField    string
	searchCategory string
	searchShow     int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Recommend internships for a resume file",
	Long: `Search runs the full pipeline from the command line: it extracts a profile
from the resume, queries every configured job board and prints the ranked matches.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchFile, "file", "f", "", "path to the resume file")
	searchCmd.Flags().StringVar(&searchField, "field", "", "role or keyword to search for")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "location to search in")
	searchCmd.Flags().IntVarP(&searchShow, "top", "n", 10, "number of matches to print")
	searchCmd.Flags().StringSlice("sources", nil, "job boards to query (default: all)")
	searchCmd.Flags().String("fetch-mode", "", "page fetching: browser or http")
	_ = searchCmd.MarkFlagRequired("file")
	_ = searchCmd.MarkFlagRequired("field")
	_ = searchCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	text, _, err := ingestion.IngestFromFile(searchFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	out := cmd.OutOrStdout()
	asJSON, _ := cmd.Flags().GetBool("json")
	p := observability.NewPrinter(out)

	var opts []recommend.Option
	if !asJSON {
		opts = append(opts, recommend.WithProgress(p.PrintProgress))
	}

	a, err := newApp(cmd.Context(), cmd, opts...)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.service.Recommend(cmd.Context(), types.RecommendRequest{
		Field:      searchField,
		Category:   searchCategory,
		ResumeText: text,
	})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	p.PrintSourceReport(res.Report)
	p.PrintRankedListings(res.Jobs, searchShow)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/internmatch/internal/extraction"
	"github.com/jonathan/internmatch/internal/ingestion"
	"github.com/jonathan/internmatch/internal/observability"
	"github.com/jonathan/internmatch/internal/types"
)

var extractFile string

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a candidate profile from a resume file",
	Long:  "Extract reads a resume (.txt, .md, .pdf or .docx), prints the extracted profile and lists the fields it could not find.",
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "path to the resume file")
	_ = extractCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(extractCmd)
}

type extractOutput struct {
	Profile  types.CandidateProfile `json:"profile"`
	Missing  []string               `json:"missing"`
	Metadata *ingestion.Metadata    `json:"metadata"`
}

func runExtract(cmd *cobra.Command, _ []string) error {
	text, meta, err := ingestion.IngestFromFile(extractFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	profile := extraction.Extract(text)

	missing := []string{}
	for _, f := range profile.MissingFields() {
		missing = append(missing, string(f))
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(extractOutput{Profile: profile, Missing: missing, Metadata: meta})
	}

	p := observability.NewPrinter(out)
	p.PrintProfile(profile)
	if len(missing) > 0 {
		_, _ = fmt.Fprintf(out, "Missing: %v\n", missing)
	}
	return nil
}

package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/partscout/datasheet-search/internal/model"
)

var (
	searchOutput      string
	searchRewrite     bool
	searchProductType string
	searchColumns     []string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search datasheets for a part and print the spec table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}

		resp, err := p.Run(cmd.Context(), model.SearchRequest{
			Query:                  args[0],
			GenerateAISearchPrompt: searchRewrite,
			ProductType:            searchProductType,
			Columns:                searchColumns,
		})
		if err != nil {
			return eris.Wrap(err, "search")
		}

		switch searchOutput {
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close() //nolint:errcheck
			return enc.Encode(resp)
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		default:
			return eris.Errorf("unknown output format %q", searchOutput)
		}
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "json", "output format: json or yaml")
	searchCmd.Flags().BoolVar(&searchRewrite, "rewrite-query", false, "let the model rewrite the query for search")
	searchCmd.Flags().StringVar(&searchProductType, "product-type", "", "filter results to this product type")
	searchCmd.Flags().StringSliceVar(&searchColumns, "columns", nil, "predetermined spec column names")
	rootCmd.AddCommand(searchCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/searchbridge/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "searchbridge",
		Short: "Translate abstract search queries to the Elasticsearch/OpenSearch DSL",
		Long: `searchbridge compiles engine-agnostic search queries, index schemas and
item batches into Elasticsearch/OpenSearch request bodies, and serves them
over HTTP against a live cluster.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newCompileCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/searchbridge/internal/dsl/bulk"
	logpkg "github.com/kailas-cloud/searchbridge/internal/logger"
	"github.com/kailas-cloud/searchbridge/internal/transport/api"
	"github.com/kailas-cloud/searchbridge/internal/usecase/backend"
)

// compileFlags are shared by every compile subcommand.
type compileFlags struct {
	file      string
	index     string
	prefix    string
	fuzziness string
	limit     int
}

func newCompileCmd() *cobra.Command {
	var f compileFlags
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a query, schema or item batch without contacting an engine",
		Long: `Compile reads a YAML or JSON file (or stdin with -f -) and prints the
request body an engine would receive.

Examples:
  searchbridge compile mapping -f schema.yaml
  searchbridge compile search -f query.yaml --index articles
  searchbridge compile bulk -f items.json --index articles --prefix prod_`,
	}
	cmd.PersistentFlags().StringVarP(&f.file, "file", "f", "-", "input file (YAML or JSON), - for stdin")
	cmd.PersistentFlags().StringVarP(&f.index, "index", "i", "", "index name (overrides the schema name)")
	cmd.PersistentFlags().StringVar(&f.prefix, "prefix", "", "engine index name prefix")
	cmd.PersistentFlags().StringVar(&f.fuzziness, "fuzziness", "auto", "default fuzziness: auto, 0, 1 or 2")
	cmd.PersistentFlags().IntVar(&f.limit, "limit", 10, "page size when the query has none")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "mapping",
			Short: "Compile an index schema to a putMapping body",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCompileMapping(cmd, f)
			},
		},
		&cobra.Command{
			Use:   "search",
			Short: "Compile a search request to a _search body",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCompileSearch(cmd, f)
			},
		},
		&cobra.Command{
			Use:   "bulk",
			Short: "Compile an item batch to a bulk NDJSON body",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCompileBulk(cmd, f)
			},
		},
	)
	return cmd
}

func (f compileFlags) service(cmd *cobra.Command) *backend.Service {
	logger, err := logpkg.NewLogger("cli", "")
	if err != nil {
		logger = zap.NewNop()
	}
	// No engine: the compile paths never reach it.
	return backend.New(nil, logger.With(zap.String("cmd", cmd.Name())), backend.Options{
		IndexPrefix: f.prefix,
		Fuzziness:   f.fuzziness,
	})
}

func runCompileMapping(cmd *cobra.Command, f compileFlags) error {
	var s api.Schema
	if err := readInput(cmd, f.file, &s); err != nil {
		return err
	}
	if f.index != "" {
		s.Name = f.index
	}
	idx, err := s.ToDomain()
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), f.service(cmd).CompileMapping(idx))
}

func runCompileSearch(cmd *cobra.Command, f compileFlags) error {
	if f.index == "" {
		return fmt.Errorf("--index is required")
	}
	var s api.Search
	if err := readInput(cmd, f.file, &s); err != nil {
		return err
	}
	idx, req, err := s.ToDomain(f.index, f.limit)
	if err != nil {
		return err
	}
	built, err := f.service(cmd).CompileSearch(idx, req)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), built.Body)
}

func runCompileBulk(cmd *cobra.Command, f compileFlags) error {
	if f.index == "" {
		return fmt.Errorf("--index is required")
	}
	var b api.IndexItems
	if err := readInput(cmd, f.file, &b); err != nil {
		return err
	}
	items, err := b.ToDomain()
	if err != nil {
		return err
	}
	body, err := bulk.Encode(f.service(cmd).CompileBulk(f.index, items))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(body)
	return err
}

// readInput decodes path into dst. JSON files are decoded as JSON, anything
// else (stdin included) as YAML, which also accepts JSON.
func readInput(cmd *cobra.Command, path string, dst any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(filepath.Clean(path))
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

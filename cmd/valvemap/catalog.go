package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/valvemap/pkg/catalog"
	"mercator-hq/valvemap/pkg/cli"
	"mercator-hq/valvemap/pkg/config"
)

var catalogFlags struct {
	format    string
	texture   string
	classname string
	dialect   string
	prefix    string
	failed    bool
	limit     int
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query the map catalog",
	Long: `Query the catalog built by "valvemap index" and "valvemap watch".

Examples:
  # Maps that use a texture
  valvemap catalog list --texture CRATE1_5

  # Maps that failed to parse
  valvemap catalog list --failed

  # Texture usage across all maps
  valvemap catalog textures --format csv

  # Everything recorded for one map
  valvemap catalog show maps/start.map --format yaml`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued maps",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show the catalog entry for a map",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

var catalogTexturesCmd = &cobra.Command{
	Use:   "textures",
	Short: "Show texture usage across catalogued maps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCatalogUsage(cmd, "textures", (*catalog.Store).Textures)
	},
}

var catalogClassNamesCmd = &cobra.Command{
	Use:   "classnames",
	Short: "Show entity classname usage across catalogued maps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCatalogUsage(cmd, "classnames", (*catalog.Store).ClassNames)
	},
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a map from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogRemove,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd, catalogShowCmd, catalogTexturesCmd, catalogClassNamesCmd, catalogRemoveCmd)

	catalogCmd.PersistentFlags().StringVarP(&catalogFlags.format, "format", "f", "text", "output format: text, json, yaml, csv")

	catalogListCmd.Flags().StringVar(&catalogFlags.texture, "texture", "", "only maps using this texture")
	catalogListCmd.Flags().StringVar(&catalogFlags.classname, "classname", "", "only maps with an entity of this classname")
	catalogListCmd.Flags().StringVar(&catalogFlags.dialect, "dialect", "", "only maps in this dialect: standard, valve220, mixed")
	catalogListCmd.Flags().StringVar(&catalogFlags.prefix, "prefix", "", "only maps whose path starts with this prefix")
	catalogListCmd.Flags().BoolVar(&catalogFlags.failed, "failed", false, "only maps that failed to parse")
	catalogListCmd.Flags().IntVar(&catalogFlags.limit, "limit", 0, "maximum number of maps (0 = no limit)")
}

// withCatalog loads the config, opens the catalog and runs fn.
func withCatalog(cmd *cobra.Command, fn func(cfg *config.Config, store *catalog.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	store, err := openCatalog(cfg, logger)
	if err != nil {
		return cli.NewInternalError("catalog", err)
	}
	defer store.Close()

	return fn(cfg, store)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(catalogFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML, cli.FormatCSV)
	if err != nil {
		return err
	}
	switch catalogFlags.dialect {
	case "", catalog.DialectStandard, catalog.DialectValve220, catalog.DialectMixed:
	default:
		return cli.NewConfigError("--dialect", fmt.Sprintf("unknown dialect %q", catalogFlags.dialect))
	}

	prefix := catalogFlags.prefix
	if prefix != "" {
		if abs, err := filepath.Abs(prefix); err == nil {
			prefix = abs
		}
	}

	return withCatalog(cmd, func(_ *config.Config, store *catalog.Store) error {
		records, err := store.List(cmd.Context(), catalog.Query{
			PathPrefix: prefix,
			Texture:    catalogFlags.texture,
			ClassName:  catalogFlags.classname,
			Dialect:    catalogFlags.dialect,
			FailedOnly: catalogFlags.failed,
			Limit:      catalogFlags.limit,
		})
		if err != nil {
			return cli.NewInternalError("catalog list", err)
		}

		var out any = records
		if format == cli.FormatText || format == cli.FormatCSV {
			out = recordTable(records)
		}
		return formatOutput(cmd, "catalog list", format, out)
	})
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(catalogFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return cli.NewCommandError("catalog show", err)
	}

	return withCatalog(cmd, func(_ *config.Config, store *catalog.Store) error {
		rec, err := store.Get(cmd.Context(), path)
		if errors.Is(err, catalog.ErrNotFound) {
			return cli.NewCommandError("catalog show", fmt.Errorf("%s: %w", path, err))
		}
		if err != nil {
			return cli.NewInternalError("catalog show", err)
		}

		var out any = rec
		if format == cli.FormatText {
			out = (*recordDetail)(rec)
		}
		return formatOutput(cmd, "catalog show", format, out)
	})
}

func runCatalogUsage(cmd *cobra.Command, name string, query func(*catalog.Store, context.Context) ([]catalog.Usage, error)) error {
	format, err := outputFormat(catalogFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML, cli.FormatCSV)
	if err != nil {
		return err
	}

	return withCatalog(cmd, func(_ *config.Config, store *catalog.Store) error {
		usage, err := query(store, cmd.Context())
		if err != nil {
			return cli.NewInternalError("catalog "+name, err)
		}

		var out any = usage
		if format == cli.FormatText || format == cli.FormatCSV {
			out = usageTable(usage)
		}
		return formatOutput(cmd, "catalog "+name, format, out)
	})
}

func runCatalogRemove(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return cli.NewCommandError("catalog remove", err)
	}

	return withCatalog(cmd, func(_ *config.Config, store *catalog.Store) error {
		removed, err := store.Remove(cmd.Context(), path)
		if err != nil {
			return cli.NewInternalError("catalog remove", err)
		}
		if !removed {
			return cli.NewCommandError("catalog remove", fmt.Errorf("%s: %w", path, catalog.ErrNotFound))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", path)
		return nil
	})
}

func formatOutput(cmd *cobra.Command, name string, format cli.OutputFormat, data any) error {
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), data); err != nil {
		return cli.NewInternalError(name, err)
	}
	return nil
}

type recordTable []*catalog.MapRecord

func (t recordTable) Header() []string {
	return []string{"PATH", "TITLE", "DIALECT", "ENTITIES", "BRUSHES", "FACES", "ERRORS", "WARNINGS", "INDEXED"}
}

func (t recordTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		dialect := r.Dialect
		if r.Failed() {
			dialect = "parse error"
		}
		rows = append(rows, []string{
			r.Path,
			r.Title,
			dialect,
			strconv.Itoa(r.Entities),
			strconv.Itoa(r.Brushes),
			strconv.Itoa(r.Faces),
			strconv.Itoa(r.LintErrors),
			strconv.Itoa(r.LintWarnings),
			r.IndexedAt.Format(time.RFC3339),
		})
	}
	return rows
}

type usageTable []catalog.Usage

func (t usageTable) Header() []string {
	return []string{"NAME", "MAPS", "TOTAL"}
}

func (t usageTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, u := range t {
		rows = append(rows, []string{u.Name, strconv.Itoa(u.Maps), strconv.Itoa(u.Total)})
	}
	return rows
}

type recordDetail catalog.MapRecord

func (r *recordDetail) RenderText(w io.Writer) error {
	rec := (*catalog.MapRecord)(r)
	fmt.Fprintf(w, "%s\n", rec.Path)
	fmt.Fprintf(w, "  id:        %s\n", rec.ID)
	fmt.Fprintf(w, "  sha256:    %s\n", rec.SHA256)
	fmt.Fprintf(w, "  size:      %d bytes\n", rec.SizeBytes)
	fmt.Fprintf(w, "  modified:  %s\n", rec.ModTime.Format(time.RFC3339))
	fmt.Fprintf(w, "  indexed:   %s (run %s)\n", rec.IndexedAt.Format(time.RFC3339), rec.RunID)
	if rec.Failed() {
		fmt.Fprintf(w, "  parse error: %s\n", rec.ParseError)
		return nil
	}
	if rec.Title != "" {
		fmt.Fprintf(w, "  title:     %s\n", rec.Title)
	}
	fmt.Fprintf(w, "  dialect:   %s\n", rec.Dialect)
	fmt.Fprintf(w, "  entities:  %d (%d point, %d solid)\n", rec.Entities, rec.PointEntities, rec.SolidEntities)
	fmt.Fprintf(w, "  brushes:   %d\n", rec.Brushes)
	fmt.Fprintf(w, "  faces:     %d (%d standard, %d valve220)\n", rec.Faces, rec.StandardFaces, rec.ValveFaces)
	fmt.Fprintf(w, "  lint:      %d error(s), %d warning(s)\n", rec.LintErrors, rec.LintWarnings)

	fmt.Fprintln(w, "  textures:")
	for _, name := range rec.TextureNames() {
		fmt.Fprintf(w, "    %-32s %d\n", name, rec.Textures[name])
	}
	fmt.Fprintln(w, "  classnames:")
	for _, name := range sortedKeys(rec.ClassNames) {
		fmt.Fprintf(w, "    %-32s %d\n", name, rec.ClassNames[name])
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucile40lpy/waspp-cpes/auth"
	"github.com/lucile40lpy/waspp-cpes/cliparse"
	"github.com/lucile40lpy/waspp-cpes/models"
	"github.com/lucile40lpy/waspp-cpes/report"
	"github.com/lucile40lpy/waspp-cpes/source"
)

func main() {
	if err := cliparse.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sourceFlags are shared by every command that reads responses
type sourceFlags struct {
	location string
	kind     string
	timeout  time.Duration
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.location, "source", "", "Responses location: file path, sheet URL or DSN")
	cmd.Flags().StringVar(&f.kind, "type", "", "Source type (sheet, xlsx, csv, sqlite, postgres); inferred when empty")
	cmd.Flags().DurationVar(&f.timeout, "timeout", cliparse.DefaultFetchTimeout, "Fetch timeout")
	cmd.MarkFlagRequired("source")
}

func (f *sourceFlags) fetch(ctx context.Context) ([]models.Record, error) {
	kind := f.kind
	if kind == "" {
		kind = inferType(f.location)
	}

	store, err := source.Open(ctx, source.Config{Type: kind, URL: f.location, Timeout: f.timeout})
	if err != nil {
		return nil, err
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return store.Fetch(ctx)
}

// inferType guesses the source type from a location
func inferType(location string) string {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return source.TypeSheet
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return source.TypePostgres
	}

	switch filepath.Ext(lower) {
	case ".csv":
		return source.TypeCSV
	case ".db", ".sqlite", ".sqlite3":
		return source.TypeSQLite
	default:
		return source.TypeXLSX
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "surveyctl",
		Short:         "Offline survey results: dashboard report, regression and admin keys",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newReportCmd(),
		newRegressCmd(),
		newExportCmd(),
		newAdminKeyCmd(),
	)

	return rootCmd
}

func newReportCmd() *cobra.Command {
	var src sourceFlags
	var own string
	var ignore []string
	var marker string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the full dashboard report as JSON",
		Long: `Compute item charts, completion, reliability and the default regression
for every response in the source.

Example: surveyctl report --source responses.xlsx --own '{"workload":"4"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ownRec models.Record
			if own != "" {
				if err := json.Unmarshal([]byte(own), &ownRec); err != nil {
					return fmt.Errorf("invalid --own JSON: %w", err)
				}
			}

			records, err := src.fetch(cmd.Context())
			if err != nil {
				return err
			}

			cfg := report.DefaultConfig()
			cfg.TestRowMarker = marker
			cfg.IgnoredFields = make([]models.FieldKey, len(ignore))
			for i, f := range ignore {
				cfg.IgnoredFields[i] = models.FieldKey(f)
			}

			rep, err := report.Assemble(cmd.Context(), records, cfg, ownRec)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rep)
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&own, "own", "", "Respondent's own answers as a JSON object")
	cmd.Flags().StringSliceVar(&ignore, "ignore", strings.Split(cliparse.DefaultIgnoredFields, ","), "Fields excluded from completion")
	cmd.Flags().StringVar(&marker, "test-marker", cliparse.DefaultTestRowMarker, "anonymous-id prefix of test rows; empty keeps all")

	return cmd
}

func newRegressCmd() *cobra.Command {
	var src sourceFlags
	var x, y string
	var alpha float64

	cmd := &cobra.Command{
		Use:   "regress",
		Short: "Fit y on x and print slope, R² and p-value",
		Long: `Fit an ordinary least squares line through the (x, y) pairs of every
response and test the slope with a two-tailed Student-t test.

Exits non-zero when the pair cannot be fitted.

Example: surveyctl regress --source responses.csv -x workload -y grades`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := src.fetch(cmd.Context())
			if err != nil {
				return err
			}

			out := report.AnalyzePair(records, report.Pair{X: models.FieldKey(x), Y: models.FieldKey(y)}, alpha)
			if err := printJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if out.Status != report.StatusOK {
				return errors.New(out.Message)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&x, "x", "x", cliparse.DefaultRegressionX, "Independent field")
	cmd.Flags().StringVarP(&y, "y", "y", cliparse.DefaultRegressionY, "Dependent field")
	cmd.Flags().Float64Var(&alpha, "alpha", report.DefaultAlpha, "Significance level")

	return cmd
}

func newExportCmd() *cobra.Command {
	var src sourceFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy every response into an xlsx workbook",
		Long: `Fetch every response, test rows included, and write them to a workbook
that the xlsx source can read back.

Example: surveyctl export --source https://script.google.com/... --out responses.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := src.fetch(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := source.WriteWorkbook(f, records); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d responses to %s\n", len(records), out)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&out, "out", "responses.xlsx", "Output workbook path")

	return cmd
}

func newAdminKeyCmd() *cobra.Command {
	var salt string

	cmd := &cobra.Command{
		Use:   "admin-key",
		Short: "Print the admin key for the response export",
		Long: `Derive the admin key accepted by GET /responses from the server's salt.

The salt defaults to ADMIN_KEY_SALT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if salt == "" {
				salt = os.Getenv("ADMIN_KEY_SALT")
			}
			if salt == "" {
				return errors.New("salt required (use --salt or ADMIN_KEY_SALT env)")
			}

			fmt.Fprintln(cmd.OutOrStdout(), auth.GenerateAdminKey(auth.ScopeExport, salt))
			return nil
		},
	}

	cmd.Flags().StringVar(&salt, "salt", "", "Admin key salt (prefer env)")

	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

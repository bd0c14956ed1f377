package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"resource-checker/internal/engine"
	"resource-checker/internal/fixer"
	"resource-checker/internal/report"
	"resource-checker/internal/schema"
	"resource-checker/internal/source"
)

var (
	output string
	format string
	tables []string
	fixes  = map[string]*bool{}
)

// Envelope is the document the check command writes.
type Envelope struct {
	RunID        string                                 `json:"run_id" yaml:"run_id"`
	GeneratedAt  time.Time                              `json:"generated_at" yaml:"generated_at"`
	SchemaSource string                                 `json:"schema_source" yaml:"schema_source"`
	Report       *report.Report                         `json:"report" yaml:"report"`
	Resources    schema.Collection[*schema.TableRecord] `json:"resources" yaml:"resources"`
	Fixes        []fixer.Result                         `json:"fixes" yaml:"fixes"`
	Warnings     []schema.Warning                       `json:"warnings" yaml:"warnings"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report drift between the schema, models and Filament forms",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		files := source.New()
		start := time.Now()

		result, err := runEngine(ctx, files, targetTables())
		if err != nil {
			return err
		}

		enabled := map[string]bool{}
		for _, name := range fixer.Order {
			if *fixes[name] {
				enabled[name] = true
			}
		}
		var results []fixer.Result
		if len(enabled) > 0 {
			f := fixer.New(Checker, files, result.Records)
			f.Run(ctx, result.Report, enabled)
			results = f.Results
			result.Warnings = append(result.Warnings, f.Warnings...)
		}

		envelope := Envelope{
			RunID:        uuid.NewString(),
			GeneratedAt:  time.Now().UTC(),
			SchemaSource: result.SchemaSource,
			Report:       result.Report,
			Fixes:        results,
			Warnings:     result.Warnings,
		}
		if envelope.Fixes == nil {
			envelope.Fixes = []fixer.Result{}
		}
		if envelope.Warnings == nil {
			envelope.Warnings = []schema.Warning{}
		}
		for _, r := range result.Records {
			envelope.Resources.Put(r.Table, r)
		}

		path := outputPath()
		data, err := encode(&envelope, outputFormat(path))
		if err != nil {
			return err
		}
		if err := files.Write(ctx, path, data); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		printSummary(envelope)
		fmt.Printf("📄 Report written to %s\n", path)
		log.Printf("Check Done! Time Elapsed: %s", time.Since(start))
		return nil
	},
}

// runEngine discovers the project files and runs the pipeline with a progress
// bar. A database that fails mid-read is abandoned for the migrations.
func runEngine(ctx context.Context, files *source.Files, names []string) (*engine.Result, error) {
	e := engine.New(Checker, files, projectDir)
	e.Tables = names

	d, err := e.Discover(ctx)
	if err != nil {
		return nil, err
	}

	var in schema.Introspector
	if DB != nil {
		in = schema.NewDBIntrospector(DB, DriverName, SchemaName)
		log.Printf("Using Dialect: %s\n", DriverName)
	}

	run := func(in schema.Introspector) (*engine.Result, error) {
		progress := uiprogress.New()
		progress.Start()
		bar := progress.AddBar(max(d.Steps(in == nil), 1)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Checking: "
		})
		defer progress.Stop()
		return e.Run(ctx, d, in, func() {
			bar.Incr()
		})
	}

	result, err := run(in)
	if err != nil && in != nil {
		log.Printf("Warning: failed to read schema from db: %v (reading migrations)", err)
		result, err = run(nil)
	}
	if err != nil {
		return nil, err
	}
	if len(names) > 0 && len(result.Records) == 0 {
		return nil, fmt.Errorf("no matching tables found for inputs: %v", names)
	}
	return result, nil
}

// targetTables applies the precedence flag, then settings.tables, then all.
func targetTables() []string {
	if len(tables) > 0 {
		return tables
	}
	return viper.GetStringSlice("settings.tables")
}

func outputPath() string {
	path := output
	if path == "" {
		path = viper.GetString("settings.output_path")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectDir, path)
	}
	return path
}

func outputFormat(path string) string {
	f := format
	if f == "" {
		f = viper.GetString("settings.format")
	}
	if f == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			f = "yaml"
		default:
			f = "json"
		}
	}
	return strings.ToLower(f)
}

func encode(envelope *Envelope, f string) ([]byte, error) {
	switch f {
	case "json":
		data, err := json.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(envelope)
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported format %q (use json or yaml)", f)
}

func printSummary(envelope Envelope) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	fmt.Printf("\n📊 Summary Report (%s, %d tables):\n", envelope.SchemaSource, envelope.Resources.Len())
	for _, c := range envelope.Report.Summary() {
		if c.Entries == 0 {
			fmt.Printf("[%s] %-38s : 0\n", green.Sprint("✓"), c.Category)
			continue
		}
		fmt.Printf("[%s] %-38s : %d entries in %d tables\n", yellow.Sprint("!"), c.Category, c.Entries, c.Tables)
	}
	fmt.Println("--------------------------------------------------")
	for _, r := range envelope.Fixes {
		fmt.Printf("🔧 %s: %d changes in %s\n", r.Fix, r.Changes, r.File)
	}
	if len(envelope.Warnings) > 0 {
		bold.Printf("%d warnings:\n", len(envelope.Warnings))
		for _, w := range envelope.Warnings {
			fmt.Println(yellow.Sprint("  └ " + w.String()))
		}
	}
}

func init() {
	RootCmd.AddCommand(checkCmd)

	flags := checkCmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Report path, relative to the project (overrides config)")
	flags.StringVar(&format, "format", "", "Report format: json or yaml (default from the output extension)")
	flags.StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to check (comma-separated)")
	for _, name := range fixer.Order {
		fixes[name] = flags.Bool("fix-"+name, false, "Rewrite sources to fix "+strings.ReplaceAll(name, "-", " "))
	}

	viper.SetDefault("settings.output_path", filepath.Join("reports", "migration_resource_report.json"))
	// Slice flags stay out of viper; targetTables handles Flag > Config > All.
}

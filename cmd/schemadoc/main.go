package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tordrt/schemadoc"
	"github.com/tordrt/schemadoc/internal/filestore"
	"github.com/tordrt/schemadoc/internal/filestore/minio"
	"github.com/tordrt/schemadoc/internal/formatter"
	"github.com/tordrt/schemadoc/internal/logger"
)

// flagKeys maps each flag to its configuration key
var flagKeys = map[string]string{
	"db-url":             "database.url",
	"mysql-url":          "database.mysql_url",
	"sqlite":             "database.sqlite",
	"script":             "database.script",
	"schema":             "database.schema",
	"tables":             "extract.tables",
	"exclude":            "extract.exclude",
	"strict":             "extract.strict",
	"expand-env":         "extract.expand_env",
	"output":             "output.file",
	"output-dir":         "output.dir",
	"format":             "output.format",
	"split-threshold":    "output.split_threshold",
	"log-level":          "log.level",
	"log-format":         "log.format",
	"storage-endpoint":   "storage.endpoint",
	"storage-bucket":     "storage.bucket",
	"storage-key":        "storage.key",
	"storage-region":     "storage.region",
	"storage-use-ssl":    "storage.use_ssl",
	"storage-access-key": "storage.access_key",
}

func newRootCmd() *cobra.Command {
	v := newViper()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "schemadoc",
		Short: "Extract a database schema document",
		Long: `schemadoc extracts table and column metadata from PostgreSQL, MySQL, SQLite,
or a DDL script executed against an in-memory SQLite database, and writes it
as json, yaml, text or markdown.

Every flag can also be set in schemadoc.yaml or through SCHEMADOC_* environment
variables (for example SCHEMADOC_DATABASE_URL or SCHEMADOC_STORAGE_SECRET_KEY).`,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := readConfigFile(v, cfgFile)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), loadConfig(v), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ./schemadoc.yaml)")
	flags.String("db-url", "", "PostgreSQL connection URL")
	flags.String("mysql-url", "", "MySQL connection string")
	flags.String("sqlite", "", "SQLite database file path")
	flags.String("script", "", "DDL script executed against an in-memory SQLite database")
	flags.StringP("schema", "s", "", "Database schema name (default: public for PostgreSQL, DSN database for MySQL)")
	flags.StringP("tables", "t", "", "Specific tables (comma-separated, optional)")
	flags.String("exclude", "", "Tables to leave out (comma-separated, optional)")
	flags.Bool("strict", false, "Fail instead of skipping a table whose descriptor is malformed")
	flags.Bool("expand-env", false, "Expand $VAR references in the script before executing it")
	flags.StringP("output", "o", "", "Output file (default: stdout)")
	flags.StringP("output-dir", "d", "", "Output directory for multi-file output")
	flags.StringP("format", "f", formatter.FormatJSON, "Output format: json, yaml, text or markdown")
	flags.Int("split-threshold", 0, "Split into multiple files when table count exceeds this (requires --output-dir)")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error or disabled")
	flags.String("log-format", "console", "Log format: console or json")
	flags.String("storage-endpoint", "", "S3-compatible endpoint (host:port) to upload the output to")
	flags.String("storage-bucket", "", "Bucket receiving the output")
	flags.String("storage-key", "", "Object key for single-file output, or key prefix for multi-file output")
	flags.String("storage-region", "", "Storage region")
	flags.Bool("storage-use-ssl", false, "Use TLS for the storage endpoint")
	flags.String("storage-access-key", "", "Storage access key (secret key via SCHEMADOC_STORAGE_SECRET_KEY)")

	for name, key := range flagKeys {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	return cmd
}

func run(ctx context.Context, cfg *config, stdout, stderr io.Writer) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	log := logger.New(&logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: stderr,
	})

	opts := &schemadoc.Options{
		Tables:        cfg.Tables,
		ExcludeTables: cfg.Exclude,
		SchemaName:    cfg.Schema,
		Strict:        cfg.Strict,
		Logger:        log.Zerolog(),
	}

	doc, err := extractDocument(ctx, cfg, opts)
	if err != nil {
		return fmt.Errorf("failed to extract schema: %w", err)
	}

	var store filestore.Store
	if cfg.Storage.Bucket != "" {
		driver, err := minio.New(ctx, cfg.storeConfig())
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		defer func() { _ = driver.Close() }()
		store = driver
	}

	// Check if we should use multi-file output
	shouldSplit := cfg.OutputDir != "" && (cfg.SplitThreshold == 0 || len(doc) > cfg.SplitThreshold)

	if shouldSplit {
		if err := schemadoc.FormatSchema(doc, &schemadoc.OutputOptions{OutputDir: cfg.OutputDir, Format: cfg.Format}); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		log.With().Str("dir", cfg.OutputDir).Int("tables", len(doc)).Logger().Info("wrote schema files")

		if store != nil {
			files := formatter.NewMultiFileFormatter(cfg.OutputDir, cfg.Format).Files(doc)
			keys, err := filestore.PutFiles(ctx, store, cfg.Storage.Bucket, cfg.Storage.Key, cfg.OutputDir, files, formatter.ContentType(cfg.Format))
			if err != nil {
				return fmt.Errorf("failed to upload output: %w", err)
			}
			log.Infof("uploaded %d files to bucket %s", len(keys), cfg.Storage.Bucket)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := schemadoc.FormatSchema(doc, &schemadoc.OutputOptions{Writer: &buf, Format: cfg.Format}); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if err := writeSingle(cfg, buf.Bytes(), stdout); err != nil {
		return err
	}

	if store != nil {
		key := cfg.objectKey()
		if err := store.Put(ctx, cfg.Storage.Bucket, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), formatter.ContentType(cfg.Format)); err != nil {
			return fmt.Errorf("failed to upload output: %w", err)
		}
		log.With().Str("bucket", cfg.Storage.Bucket).Str("key", key).Logger().Info("uploaded schema document")
	}
	return nil
}

func extractDocument(ctx context.Context, cfg *config, opts *schemadoc.Options) (schemadoc.Document, error) {
	if cfg.ScriptPath != "" {
		var filter schemadoc.Filter
		if cfg.ExpandEnv {
			filter = schemadoc.ExpandEnv
		}
		return schemadoc.ExtractFromScript(ctx, cfg.ScriptPath, filter, opts)
	}
	return schemadoc.ExtractSchema(ctx, cfg.databaseURL(), opts)
}

// writeSingle writes a rendered document to --output, into --output-dir when
// the table count stayed below the split threshold, or to stdout
func writeSingle(cfg *config, data []byte, stdout io.Writer) error {
	path := cfg.OutputFile
	if path == "" && cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path = filepath.Join(cfg.OutputDir, defaultKeyName+formatter.Extension(cfg.Format))
	}

	if path == "" {
		_, err := stdout.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

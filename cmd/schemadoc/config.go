package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/tordrt/schemadoc/internal/filestore"
	"github.com/tordrt/schemadoc/internal/formatter"
)

const (
	envPrefix      = "SCHEMADOC"
	configName     = "schemadoc"
	defaultKeyName = "schema"
)

// config is the resolved CLI configuration (flag > env > config file > default)
type config struct {
	DatabaseURL string
	MySQLURL    string
	SQLitePath  string
	ScriptPath  string
	Schema      string

	Tables    []string
	Exclude   []string
	Strict    bool
	ExpandEnv bool

	OutputFile     string
	OutputDir      string
	Format         string
	SplitThreshold int

	LogLevel  string
	LogFormat string

	Storage storageConfig
}

type storageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
	Region    string
	UseSSL    bool
}

// newViper returns a viper instance reading SCHEMADOC_* variables
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.schema", "")
	v.SetDefault("output.format", formatter.FormatJSON)
	v.SetDefault("output.split_threshold", 0)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("storage.use_ssl", false)
	return v
}

// readConfigFile loads cfgFile, or schemadoc.yaml from the working directory
// when cfgFile is empty. A missing default file is not an error.
func readConfigFile(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

func loadConfig(v *viper.Viper) *config {
	return &config{
		DatabaseURL: v.GetString("database.url"),
		MySQLURL:    v.GetString("database.mysql_url"),
		SQLitePath:  v.GetString("database.sqlite"),
		ScriptPath:  v.GetString("database.script"),
		Schema:      v.GetString("database.schema"),

		Tables:    tableList(v, "extract.tables"),
		Exclude:   tableList(v, "extract.exclude"),
		Strict:    v.GetBool("extract.strict"),
		ExpandEnv: v.GetBool("extract.expand_env"),

		OutputFile:     v.GetString("output.file"),
		OutputDir:      v.GetString("output.dir"),
		Format:         v.GetString("output.format"),
		SplitThreshold: v.GetInt("output.split_threshold"),

		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),

		Storage: storageConfig{
			Endpoint:  v.GetString("storage.endpoint"),
			AccessKey: v.GetString("storage.access_key"),
			SecretKey: v.GetString("storage.secret_key"),
			Bucket:    v.GetString("storage.bucket"),
			Key:       v.GetString("storage.key"),
			Region:    v.GetString("storage.region"),
			UseSSL:    v.GetBool("storage.use_ssl"),
		},
	}
}

// validate checks flag combinations before anything is opened
func (c *config) validate() error {
	sources := 0
	for _, s := range []string{c.DatabaseURL, c.MySQLURL, c.SQLitePath, c.ScriptPath} {
		if s != "" {
			sources++
		}
	}
	if sources == 0 {
		return fmt.Errorf("one of --db-url, --mysql-url, --sqlite, or --script must be specified")
	}
	if sources > 1 {
		return fmt.Errorf("only one of --db-url, --mysql-url, --sqlite, or --script can be specified")
	}

	if c.OutputDir != "" && c.OutputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}
	if c.SplitThreshold < 0 {
		return fmt.Errorf("--split-threshold must not be negative")
	}
	if _, err := formatter.New(c.Format, io.Discard); err != nil {
		return err
	}
	if c.Storage.Bucket != "" {
		if err := c.storeConfig().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// databaseURL returns the connection URL for the live database sources
func (c *config) databaseURL() string {
	switch {
	case c.SQLitePath != "":
		return "sqlite://" + c.SQLitePath
	case c.MySQLURL != "":
		if strings.HasPrefix(c.MySQLURL, "mysql://") {
			return c.MySQLURL
		}
		return "mysql://" + c.MySQLURL
	default:
		return c.DatabaseURL
	}
}

func (c *config) storeConfig() *filestore.Config {
	cfg := filestore.DefaultConfig(c.Storage.Endpoint, c.Storage.AccessKey, c.Storage.SecretKey)
	cfg.Bucket = c.Storage.Bucket
	cfg.Region = c.Storage.Region
	cfg.UseSSL = c.Storage.UseSSL
	return cfg
}

// objectKey is the upload key for single-file output
func (c *config) objectKey() string {
	if c.Storage.Key != "" {
		return c.Storage.Key
	}
	return defaultKeyName + formatter.Extension(c.Format)
}

// tableList reads a list either as a YAML sequence or a comma-separated string
func tableList(v *viper.Viper, key string) []string {
	if s, ok := v.Get(key).(string); ok {
		return parseTableList(s)
	}
	var list []string
	for _, name := range v.GetStringSlice(key) {
		if name = strings.TrimSpace(name); name != "" {
			list = append(list, name)
		}
	}
	return list
}

func parseTableList(tables string) []string {
	if tables == "" {
		return nil
	}
	var list []string
	for _, t := range strings.Split(tables, ",") {
		if t = strings.TrimSpace(t); t != "" {
			list = append(list, t)
		}
	}
	return list
}

package filestore

import "github.com/tordrt/schemadoc/internal/errs"

// Provider identifies the file storage backend.
type Provider string

const (
	ProviderMinIO Provider = "minio"
)

// Config holds the settings needed to reach an object storage backend.
type Config struct {
	// Provider is the storage backend (e.g. ProviderMinIO).
	Provider Provider

	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	AccessKey string
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends. Leave empty for MinIO.
	Region string

	// Bucket receives uploaded documents.
	Bucket string
}

// DefaultConfig returns a local-dev config for MinIO.
func DefaultConfig(endpoint, accessKey, secretKey string) *Config {
	return &Config{
		Provider:  ProviderMinIO,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		UseSSL:    false,
	}
}

// Validate reports whether cfg names everything an upload needs.
func (c *Config) Validate() error {
	switch {
	case c.Endpoint == "":
		return errs.InvalidInput("storage endpoint is required")
	case c.Bucket == "":
		return errs.InvalidInput("storage bucket is required")
	case c.Provider != "" && c.Provider != ProviderMinIO:
		return errs.InvalidInput("unsupported storage provider: " + string(c.Provider))
	}
	return nil
}

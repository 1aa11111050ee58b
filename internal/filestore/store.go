// Package filestore defines the sink used to publish rendered schema
// documents to object storage.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin")
//	cfg.Bucket = "schemas"
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	err = store.Put(ctx, cfg.Bucket, "app/schema.json", r, size, "application/json")
package filestore

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
)

// Store is the interface object storage providers implement.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// Put writes size bytes from r to key inside bucket. Pass size -1 when
	// the length is unknown.
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error
}

// PutFiles uploads the named files from dir to bucket, keyed as
// prefix/<name>, and returns the keys written. Other files in dir are left
// alone.
func PutFiles(ctx context.Context, s Store, bucket, prefix, dir string, names []string, contentType string) ([]string, error) {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		key := path.Join(prefix, name)
		if err := putFile(ctx, s, bucket, key, filepath.Join(dir, name), contentType); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func putFile(ctx context.Context, s Store, bucket, key, name, contentType string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	return s.Put(ctx, bucket, key, f, info.Size(), contentType)
}

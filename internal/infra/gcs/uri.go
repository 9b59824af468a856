// Package gcs reads ledger files from and writes them to Google Cloud
// Storage.
package gcs

import (
	"fmt"
	"path"
	"strings"
)

const uriScheme = "gs://"

// ParseURI splits "gs://bucket/path/to/object" into bucket and object.
func ParseURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, uriScheme)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}

// URI joins a bucket and object name into a gs:// URI.
func URI(bucket, object string) string {
	return uriScheme + bucket + "/" + strings.TrimPrefix(object, "/")
}

// FilenameFromURI extracts the filename from a GCS URI.
// e.g., "gs://bucket/folder/ledger.csv" → "ledger.csv"
func FilenameFromURI(uri string) string {
	trimmed := strings.TrimPrefix(uri, uriScheme)

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}

// Package source loads templates and data files from local paths or
// s3://bucket/key URIs and decodes data files into reactive stores.
package source

// Package storage keeps finished analysis reports in an object store.
//
// The Storage interface covers the three operations reports need. Backends
// register a factory from their package init, so a binary links only the
// backends it imports:
//
//   - storage/local: a directory on the local filesystem
//   - storage/s3: Amazon S3 and S3-compatible services such as MinIO
//
// An empty provider disables storage.
//
//	storage:
//	  provider: "s3"
//	  bucket: "transcripts"
//	  region: "eu-west-1"
//	  prefix: "reports"
package storage

// Package seed loads YAML manifests that populate a fresh filesystem with
// starter files and a working directory.
package seed

// Package fs loads catalogue files from disk.
package fs

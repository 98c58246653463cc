// Package database opens the storage backends used by repositories: Bun
// connections for relational databases and MongoDB clients for the document
// store and the document mapper. It also carries configuration
// loading, logging adapters, health checks and table bootstrap.
package database

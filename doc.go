// Package easyrepo provides a CRUD and pagination repository abstraction
// with interchangeable storage backends.
//
// Application code depends on the contract in the repository package and
// picks an adapter at construction time: repository/memory for tests and
// prototypes, repository/document for MongoDB collections, repository/mapper
// for mgm models in MongoDB, and repository/relational for Bun models in
// MySQL, PostgreSQL or SQLite. Service wraps any of them with a strict Get
// and page walking.
package easyrepo

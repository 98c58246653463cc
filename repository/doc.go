// Package repository defines the backend-agnostic repository contract:
// CRUD operations, pagination and filtering over entities of a generic type,
// the identity accessor typed records implement, and the error taxonomy
// shared by every adapter. Adapters live in the memory, document, mapper and
// relational subpackages.
package repository

// Package book defines the book record exchanged with the catalog backend, the
// static table that binds form field identifiers to record fields, and the
// ordered validation applied to a candidate record before it is submitted.
//
// Records are server owned: the client only ever holds a transient copy of the
// result of the last fetch. Outgoing create/update bodies use Payload, which
// deliberately has no identifier so an id can never travel with a create.
package book

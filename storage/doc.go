// Package storage defines the persistence interfaces for the company vector
// collection and the MUS binary serialization of stored entries.
//
// The CompanyRepository interface is implemented by the badger subpackage.
// Consumers depend on the interface so backends can be swapped and tests can
// run against an in-memory database.
package storage

package model

// Customer mirrors the 'customers' table.  A customer is identified by a
// unique email address and is created on their first booking attempt; the
// record is referenced by reservations but never deleted by this service.
type Customer struct {
	ID    uint64 // customers.id
	Name  string // customers.name
	Email string // customers.email (unique, lower-cased)
	Phone string // customers.phone (optional, empty when absent)
}

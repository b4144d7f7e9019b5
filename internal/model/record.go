package model

// Record is implemented by every collection entry the store persists.
type Record interface {
	recordID() string
	ownerID() string
}

// RecordID returns the identifier of r.
func RecordID(r Record) string { return r.recordID() }

// OwnerID returns the user id owning r.
func OwnerID(r Record) string { return r.ownerID() }

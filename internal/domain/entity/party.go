package entity

// Party kinds.
const (
	PartyCustomer = "CUSTOMER"
	PartySupplier = "SUPPLIER"
)

// Party is a minimal read-only view of a customer or supplier, enough for
// validating references and describing finance records. Party CRUD lives
// outside this core.
type Party struct {
	ID          string
	Kind        string
	DisplayName string
}

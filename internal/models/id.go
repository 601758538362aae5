package models

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// ID prefixes for ledger entities. IDs look like "person_01h455vb4pex5vsknk084sn02q".
const (
	PersonPrefix      = "person"
	TransactionPrefix = "txn"
)

// NewPersonID generates a new unique person ID.
func NewPersonID() string { return newID(PersonPrefix) }

// NewTransactionID generates a new unique transaction ID.
func NewTransactionID() string { return newID(TransactionPrefix) }

func newID(prefix string) string {
	tid, err := typeid.Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("models: invalid id prefix %q: %v", prefix, err))
	}
	return tid.String()
}


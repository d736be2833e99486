package itemledger

import "github.com/xraph/itemledger/id"

// ID identifies records minted by the ledger itself (events, withdrawals).
type ID = id.ID

// Prefix identifies the record type encoded in a TypeID.
type Prefix = id.Prefix

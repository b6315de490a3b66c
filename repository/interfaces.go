package repository

import "paper-trader/ledger"

// Compile-time interface verification
var (
	_ ledger.Store = (*Repository)(nil)
	_ ledger.Store = (*MemoryStore)(nil)
)

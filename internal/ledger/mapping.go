package ledger

// Side is the ledger side an account is resolved for.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// AccountMapping maps "<TYPE>_DEBIT", "<TYPE>_CREDIT", "DEFAULT_DEBIT" and
// "DEFAULT_CREDIT" to account names or codes.
type AccountMapping map[string]string

// Resolve returns the account for txType on side, in order:
//
//  1. mapping["<txType>_<side>"]
//  2. mapping["DEFAULT_<side>"]
//  3. fallback
//
// Empty entries are treated as absent. Resolve never fails; a nil mapping
// yields the fallback.
func (m AccountMapping) Resolve(txType string, side Side, fallback string) string {
	if account := m[txType+"_"+string(side)]; account != "" {
		return account
	}
	if account := m["DEFAULT_"+string(side)]; account != "" {
		return account
	}
	return fallback
}

// Fallback is a system's literal account pair used when a mapping resolves
// nothing.
type Fallback struct {
	Debit  string
	Credit string
}

// For returns the literal for side.
func (f Fallback) For(side Side) string {
	if side == Credit {
		return f.Credit
	}
	return f.Debit
}

// accounts resolves both sides at once.
func accounts(m AccountMapping, txType string, fb Fallback) (debit, credit string) {
	return m.Resolve(txType, Debit, fb.For(Debit)), m.Resolve(txType, Credit, fb.For(Credit))
}

package model

import "time"

// ScriptAddress is the result of resolving an output script: either an address or an
// unresolved script. It is decided once during normalization.
type ScriptAddress struct {
	address    string
	scriptType string
}

// ResolvedAddress returns a ScriptAddress holding a decoded address.
func ResolvedAddress(address string) ScriptAddress {
	return ScriptAddress{address: address}
}

// UnresolvedScript returns a ScriptAddress for a script without a standard address.
func UnresolvedScript(scriptType string) ScriptAddress {
	return ScriptAddress{scriptType: scriptType}
}

// Resolved reports whether an address was decoded.
func (a ScriptAddress) Resolved() bool {
	return a.address != ""
}

// Address returns the decoded address and whether it exists.
func (a ScriptAddress) Address() (string, bool) {
	return a.address, a.address != ""
}

// ScriptType returns the script type recorded for an unresolved script.
func (a ScriptAddress) ScriptType() string {
	return a.scriptType
}

// Ptr returns the address as a nullable column value.
func (a ScriptAddress) Ptr() *string {
	if a.address == "" {
		return nil
	}
	addr := a.address
	return &addr
}

// AddressSighting records that an address took part in a transaction.
type AddressSighting struct {
	Address string
	TxHash  string
	SeenAt  time.Time
}

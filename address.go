package packetnet

// address.go defines Address, the 16-bit compact router:terminal identifier
// used throughout the core to name routers, terminals, and packet endpoints.

import "fmt"

// Address is a 16-bit value split into an 8-bit router id (upper byte) and
// an 8-bit terminal id (lower byte). A terminal id of 0 denotes the router
// itself. The zero Address (0.0) is reserved as the invalid/unset sentinel.
type Address uint16

// InvalidAddress is the sentinel returned by lookups that find no answer.
const InvalidAddress Address = 0

// NewAddress packs a router id and terminal id into an Address.
func NewAddress(routerID, terminalID uint8) Address {
	return Address(uint16(routerID)<<8 | uint16(terminalID))
}

// RouterID returns the upper byte: the router-portion of the address.
func (a Address) RouterID() uint8 {
	return uint8(a >> 8)
}

// TerminalID returns the lower byte: 0 when the address names a router.
func (a Address) TerminalID() uint8 {
	return uint8(a)
}

// IsRouter reports whether a names a router (terminal id == 0).
func (a Address) IsRouter() bool {
	return a.TerminalID() == 0
}

// IsTerminal reports whether a names a terminal (terminal id >= 1).
func (a Address) IsTerminal() bool {
	return a.TerminalID() != 0
}

// IsValid reports whether a is not the reserved zero sentinel.
func (a Address) IsValid() bool {
	return a != InvalidAddress
}

// RouterAddr returns the router address that owns a: terminal id zeroed.
func (a Address) RouterAddr() Address {
	return NewAddress(a.RouterID(), 0)
}

// String renders the address as "RRR.TTT", zero-padded three-digit decimal
// bytes, per the report-surface rendering convention.
func (a Address) String() string {
	return fmt.Sprintf("%03d.%03d", a.RouterID(), a.TerminalID())
}

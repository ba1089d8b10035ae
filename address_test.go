package packetnet

import "testing"

func TestAddressRouterTerminalSplit(t *testing.T) {
	a := NewAddress(20, 15)
	if a.RouterID() != 20 || a.TerminalID() != 15 {
		t.Fatalf("got router=%d terminal=%d, want 20/15", a.RouterID(), a.TerminalID())
	}
	if !a.IsTerminal() || a.IsRouter() {
		t.Fatalf("expected terminal address classification")
	}
}

func TestAddressRouterClassification(t *testing.T) {
	a := NewAddress(20, 0)
	if !a.IsRouter() || a.IsTerminal() {
		t.Fatalf("expected router address classification")
	}
	if a.RouterAddr() != a {
		t.Fatalf("router address should be its own RouterAddr()")
	}
}

func TestAddressInvalidSentinel(t *testing.T) {
	if InvalidAddress.IsValid() {
		t.Fatalf("zero address must be invalid")
	}
	if NewAddress(1, 0).RouterAddr().IsValid() == false {
		t.Fatalf("router address 1.0 should be valid")
	}
}

func TestAddressString(t *testing.T) {
	a := NewAddress(20, 15)
	if got, want := a.String(), "020.015"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAddressRouterAddrFromTerminal(t *testing.T) {
	a := NewAddress(10, 5)
	r := a.RouterAddr()
	if r.RouterID() != 10 || r.TerminalID() != 0 {
		t.Fatalf("got %s, want router 010.000", r)
	}
}

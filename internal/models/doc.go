// Package models defines the core domain models for the club ledger.
//
// # Models
//
//   - Club: a managed team with one owning actor, a balance and a stadium tier
//   - LedgerEntry: one signed, timestamped posting against a club's balance
//   - EntryFilter: selects which postings a history query returns
//
// Actors are identified by the numeric identity the messaging transport
// assigns them (ActorID). There are no local user accounts.
//
// # Design Principles
//
// 1. **Derived balance**: Club.Balance always equals the sum of the club's
// ledger entries. It is cached on the club row and only ever moved together
// with an appended entry.
// 2. **Exact money**: amounts are decimal.Decimal, never float64.
// 3. **Avoid circular references**: relationships are IDs, not pointers.
package models

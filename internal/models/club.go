package models

import "github.com/shopspring/decimal"

// ActorID identifies a person talking to the bot. It is the stable numeric
// identity assigned by the messaging transport.
type ActorID int64

// Club represents a managed team and its finances.
type Club struct {
	// ID is assigned by the store on creation.
	ID int64

	// Name is the display name of the club.
	Name string

	// Description is free text shown on the club card.
	Description string

	// OwnerID is the actor managing the club. At most one club per owner.
	OwnerID ActorID

	// Balance is the sum of all ledger entries of the club.
	Balance decimal.Decimal

	// Tier is the stadium level, 0..upgrade.MaxTier. It never decreases.
	Tier int
}

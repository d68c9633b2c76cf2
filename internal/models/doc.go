// Package models defines the core domain models for the expense ledger.
//
// # Ledger Entities
//
//   - Expense: a shared cost paid by one user and split among participants
//   - Share: one participant's portion of an expense and what they still owe
//   - Transaction: a payment that reduced a participant's outstanding share
//
// # Directory Entities
//
//   - User and Group are owned by the directory and only referenced by ID
//     from ledger entities.
//
// # Sign Convention
//
// Share.Amount is the portion of the expense consumed by the participant.
// The payer's entry is the total minus everyone else's entries and may have
// any sign. Only non-payers owe money: their Owed starts at Amount and
// decreases toward zero as payments are recorded. The payer's Owed is always
// zero and their share is SETTLED from the start.
//
// Dues are derived on demand from outstanding shares and are never stored.
package models

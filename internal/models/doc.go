// Package models defines the core domain models for the shared-expense ledger.
//
// # Models
//
//   - Transaction: one expense event paid by one person and shared by participants
//   - Split: how a transaction's amount is divided (equal, percentage, weighted)
//   - Settlement: a real-world payment between two people, recorded to adjust balances
//   - Group: a named set of people whose transactions can be balanced together
//   - User: a registered account allowed to use the API
//
// People are identified by name strings. Users and people are deliberately not linked:
// anyone can appear as a payer or participant without an account.
//
// # Design Principles
//
//  1. Records are created once and never mutated by the balance engine.
//  2. Relationships use ID strings, never pointers.
//  3. A transaction with an empty GroupID is a personal transaction.
package models

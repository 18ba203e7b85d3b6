// Package models defines the core domain models for groupledger.
//
// # Models
//
//   - User: a registered account; its ID is the identity used as payer and debtor
//   - Group: a set of members who share expenses
//   - Expense: one payment made by a payer on behalf of the group
//   - DebtLine: one debtor's share of an expense, settled independently
//
// # Design Principles
//
//  1. Relationships use ID strings, never pointers, so snapshots are plain values
//  2. Money is decimal.Decimal; floats never touch an amount
//  3. An Expense and its DebtLines are written and deleted together
package models

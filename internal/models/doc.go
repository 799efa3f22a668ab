// Package models defines the core domain models for debtbook.
//
// # Models
//
//   - Debt: a single IOU between the account holder and a named person
//   - Repayment: one principal amount applied to a Debt
//   - Transaction: a cash-ledger entry correlated with a debt event
//   - AccountSettings: the account's exchange rate preference
//
// # Design Principles
//
//  1. **Accounts are opaque**: AccountID comes from an already validated identity token
//  2. **Decimal money**: all amounts are shopspring decimals, never float64
//  3. **IDs over pointers**: debts reference their ledger transaction by ID only
//  4. **Terminal cancel**: a canceled debt never changes again
//
// Errors shared by every layer live in errors.go and are matched with errors.Is.
package models

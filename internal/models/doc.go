// Package models defines the core domain models for the cohort ledger.
//
// # Models
//
//   - Customer: a registered member of a cohort group, ranked by group index
//   - Transaction: a single deposit or withdrawal owned by one customer
//
// Customer is the aggregate root: a transaction never outlives its owner.
// The cascade is enforced by the service layer, not the store.
//
// # Design Principles
//
//  1. **Derived balance**: a customer's balance is never stored; it is always
//     recomputed from the owned transactions (see internal/calculator).
//  2. **Exact money**: amounts use shopspring/decimal, never floats.
//  3. **Avoid circular references**: transactions reference their owner by ID
//     string instead of a pointer.
package models

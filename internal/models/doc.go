// Package models defines the core domain models for the expense tracker.
//
// # Models
//
//   - Expense: a recorded expense identified by a server-assigned ID
//   - ExpenseData: the editable fields of an expense, sent on create and update
//
// # Design Principles
//
// 1. **Server-assigned identity**: an Expense has no ID until the remote service
// accepts it, so ExpenseData carries no ID field at all
// 2. **Full replacement**: an update replaces description, amount and date together;
// the ID never changes
// 3. **Calendar dates**: dates carry no time of day and travel as YYYY-MM-DD
package models

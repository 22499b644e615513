// Package billing provides the payment domain of the dental lab backend.
//
// It models how tendered money is distributed across a client's works:
//   - WorkDue: a work's financial state (price, paid so far) as allocation input
//   - Plan/BuildPlan: the pure allocation algorithm, walking works in a
//     reproducible order, with optional explicit per-work overrides
//   - Payment: a registered payment, immutable once committed, deduplicated
//     through its idempotency key
//   - PaymentAllocation: the committed application of payment money to a work
//
// Allocation never exceeds a work's remaining due and never exceeds the
// tendered amount. A remainder the caller confirmed goes to the client
// balance ledger, which lives in the client domain.
package billing

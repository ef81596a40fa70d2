// Package mirror keeps a secondary node's view of OTP codes in step with the
// primary node that owns the secrets.
//
// The primary pushes the full batch of visible code snapshots on a fixed
// interval, whenever the vault changes, and whenever the secondary asks for
// one. The secondary replaces its cache wholesale on every batch, stamps each
// snapshot with its own clock on arrival, and asks for updates on its own
// interval. Neither side ever waits for an acknowledgment: sends run in the
// background and an unreachable peer simply skips the round.
//
// HOTP codes can be advanced from the secondary. Advance sends an
// incrementCounter request and records a predicted counter, which the next
// batch from the primary replaces with the confirmed value.
//
// Time is taken from a scheduler.Clock so the loops can be driven by
// scheduler.ManualClock in tests.
package mirror

// Package period implements relative contract period resolution with business-day
// transition logic for energy delivery contracts.
//
// A quoting system references contracts by their offset from "now" (q_1 = next
// quarter, m_2 = month after next) rather than by absolute calendar period. Near the
// end of a period, quoting conventions roll over: within the last n_s business days
// of a month or quarter, contracts are quoted from the next period's perspective.
//
// Two upstream systems (the exchange data fetcher and the synthetic spread builder)
// must agree exactly on this mapping; historically each carried its own slightly
// divergent copy of the countdown loop, which produced mismatched q_1/q_2 labels for
// dates inside the transition window. This package is the single implementation both
// sides share.
//
// # Core Components
//
//   - resolver.go: Resolve maps (reference date, target contract, n_s) to a relative
//     period offset and the as-of period it was computed from
//   - businessday.go: weekend-only business day arithmetic (no holiday calendar)
//   - schedule.go: Schedule segments a date range into runs of constant offset, so a
//     fetch orchestrator never mixes labels within one query
//
// # Business Day Convention
//
// Business days are Monday through Friday. No holiday calendar is applied: both
// upstream systems historically agreed only on the weekend-only rule, so introducing
// exchange holidays here would desynchronize them. This is a documented limitation.
//
// All functions are pure and safe for concurrent use.
package period

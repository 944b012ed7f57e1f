// Package health serves the status endpoints of drlx watch.
//
//   - /health answers 200 while the process runs.
//   - /ready runs the registered checks (last parse succeeded, report store
//     reachable) and answers 503 when one fails.
//   - /version reports build information.
//
// Checks run concurrently, each bounded by the checker timeout.
package health

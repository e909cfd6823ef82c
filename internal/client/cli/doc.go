// Package cli provides the interactive GymKeeper member client.
//
// It wires configuration, the record store, the session manager and the
// enrollment flow into a line-oriented REPL. Typical flow: the persisted
// session is rehydrated on start, a background watcher reports memberships
// that are about to expire, and the member runs commands.
//
// Key features:
//   - Login / Signup / Logout
//   - Browse plans and branches, search branches by name and facilities
//   - Enroll: plan → branch → payment, followed by the confirmation view
//   - Dashboard, billing history, receipts and profile editing
//   - Free visit booking, BMI and calorie calculators
//
// Protected commands go through services.RouteGuard; a guest is asked to
// log in and is then taken to the command they asked for.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and services.ExpiryWatcher for details.
package cli

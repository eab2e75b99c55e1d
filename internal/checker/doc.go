// Package checker implements the WordPress audit checks.
//
// Every check is a plain function that reads host configuration through a
// hostenv.Environment and, where it needs the live site, issues read-only
// probes through a Prober. Checks never fail the audit: probe failures are
// turned into warnings here, and anything unexpected is returned as an error
// for the audit runner to downgrade.
//
// Register wires the performance and security batteries into an
// audit.Runner in their fixed order.
package checker

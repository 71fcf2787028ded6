// Package observe provides observability primitives for reversible runs.
//
// It is a pure instrumentation library: no execution, no rollback logic, no
// I/O beyond exporter setup. Consumers wrap protected blocks with Middleware
// and feed executor diagnostics through Diagnostics.
package observe

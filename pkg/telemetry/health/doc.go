// Package health provides liveness and readiness endpoints for long-running
// modes such as "hl7edit watch".
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("dictionary", func(ctx context.Context) error { ... })
//	checker.Mount(mux, version, registry.Versions())
//
// /healthz always answers 200. /readyz runs every registered check and
// answers 503 when any of them fails or times out.
package health

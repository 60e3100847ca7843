// Package health provides liveness and readiness checks for the watch
// service.
//
// Components register a CheckFunc under a name; the readiness endpoint runs
// them all concurrently with a per-check timeout and answers 503 when any
// fails:
//
//	checker := health.New(2 * time.Second)
//	checker.Register("catalog", store.Ping)
//	mux.Handle("/readyz", checker.ReadinessHandler())
package health

// Package resilience provides the fault-isolation patterns used around the
// catalog fetch and the scheduler:
//   - CircuitBreaker: fails fast while the catalog source is unhealthy
//   - Bulkhead: limits how many job runs may be in flight at once
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("catalog"))
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "runs", MaxConcurrent: 1})
//
//	err := bh.Execute(ctx, func() error {
//	    return cb.Execute(func() error { return fetch(ctx) })
//	})
package resilience

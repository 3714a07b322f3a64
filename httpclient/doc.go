// Package httpclient is the outbound HTTP layer: a pooled net/http client
// with a bounded timeout, typed error classification and an optional
// circuit breaker. The rest subpackage decodes JSON on top of it.
//
//	client, err := httpclient.New(httpclient.Config{
//	    Timeout:        30 * time.Second,
//	    CircuitBreaker: httpclient.DefaultCircuitBreakerConfig("catalog"),
//	})
//	resp, err := client.Do(ctx, httpclient.Request{URL: "http://localhost:8080/beers"})
//	if httpclient.IsRetryable(err) {
//	    // timeout, connection failure, 429 or 5xx
//	}
package httpclient

// Package rest provides a JSON-focused REST client built on httpclient.
//
// It inherits the timeout and circuit breaker of the base client and adds a
// typed GET:
//
//	client, err := rest.New(httpclient.Config{Timeout: 30 * time.Second})
//
//	resp, err := rest.Get[[]beer.Beer](ctx, client, "http://localhost:8080/beers")
package rest

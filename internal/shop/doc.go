// Package shop provides an HTTP client for the shop API that serves the
// product catalog and stock levels.
//
// # Endpoints
//
//   - GET /products: JSON array of {"id", "title", "price"}
//   - GET /stock/{id}: {"id", "quantity"}
//
// Client satisfies both CatalogService and StockService; consumers depend on
// the narrow interface they need.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Set Accept: application/json and User-Agent: basket/0.1
//   - Have a 5-second timeout unless WithTimeout overrides it
//   - Pass through a circuit breaker that opens after five consecutive
//     failures and probes again after ten seconds
//
// # Errors
//
//   - Transport failures: wrapped as "execute request: ..."
//   - Status >= 400: *StatusError; a 404 also matches ErrNotFound
//   - Undecodable body: wrapped as "decode response: ..."
//   - Open breaker: matches ErrUnavailable
//
// A 404 does not count against the breaker.
package shop

// Package stockd is a small development server speaking the shop API that
// basket consumes:
//
//	GET /products    -> [{"id":1,"title":"...","price":179.9}]
//	GET /stock/:id   -> {"id":1,"quantity":3}
//	PUT /stock/:id   <- {"quantity":3}
//
// Products come from a TOML seed file (see LoadSeed) or DefaultInventory.
// A per-product latency delays stock replies, which makes it easy to watch
// a slow check being superseded by a newer one.
package stockd

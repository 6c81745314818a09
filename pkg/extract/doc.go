// Package extract talks to the external entity extraction service.
//
// The service is consumed as one opaque request/response exchange: the
// request carries raw text, the response carries the extracted entities and
// a precomputed graph (see [graph.Response]). There is no retry policy; a
// failed submission surfaces as an EXTRACTION_FAILED error and the caller
// re-submits manually.
//
// # Extractors
//
//   - [Client]: HTTP client for POST {url}/api/extract
//   - [CachedExtractor]: serves identical text from a [cache.Cache]
//   - [FileExtractor]: replays a saved response file, for offline use
//   - [Func]: adapts a plain function
//
// [graph.Response]: github.com/matzehuels/entigraph/pkg/graph.Response
// [cache.Cache]: github.com/matzehuels/entigraph/pkg/cache.Cache
package extract

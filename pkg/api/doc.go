// Package api serves catalogues and sampled cases over HTTP.
//
// # Routes
//
//	GET  /healthz                        build info
//	GET  /v1/catalogue?max_k=&include_holes=&shapes=
//	GET  /v1/catalogue/{size}?max_k=&include_holes=
//	POST /v1/cases                       sample one case
//
// POST /v1/cases takes a JSON body
//
//	{"seed": 7, "max_k": 10, "min_pick": 6, "max_pick": 15,
//	 "min_exp": 2, "max_exp": 5, "orient": false, "include_holes": false}
//
// where every field is optional. The case is returned as JSON, or in the
// packing input format when the request sends "Accept: text/plain".
//
// max_k is capped by [Options.MaxK] so that a single request cannot start an
// enumeration the server cannot finish.
//
// # Errors
//
// Errors are JSON objects {"error": {"code": ..., "message": ...},
// "request_id": ...}. Codes map to status: INVALID_ARGUMENT 400, NOT_FOUND
// 404, RESOURCE_EXHAUSTED and EMPTY_POOL 422, CANCELLED 503, anything else 500.
package api

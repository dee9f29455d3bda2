// Package pagination drives an incremental, search-filtered feed of staff
// operation-log entries.
//
// A feed is loaded page by page from a PageFetcher. Four pieces cooperate:
//
//   - Debouncer commits a search term once typing pauses
//   - ScrollTrigger reports when the last rendered entry nears the viewport
//   - Coordinator decides which page to fetch and whether a response is stale
//   - Accumulator merges applied pages into the displayed list
//
// Controller wires them together and owns the only mutable state:
//
//	ctrl := pagination.NewController(apiClient, pagination.DefaultConfig())
//	ctrl.Open()
//	defer ctrl.Close()
//
//	ctrl.Search("alice")                      // debounced, resets to page 1
//	ctrl.Scroll(pagination.Viewport{...})     // may request the next page
//	state := ctrl.Snapshot()
//
// At most one fetch is live at any time. Every request carries a Token; a
// response whose token is no longer the live one is dropped on arrival, so a
// search change made while a page is downloading can never let the old page
// land after the reset. In-flight requests are not aborted, only ignored.
//
// A failed fetch moves the feed to StatusFailed and is reported once on
// Controller.Errors. Scrolling never retries a failure; Controller.Retry does.
package pagination

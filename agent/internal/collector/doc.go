// Package collector acquires the full patient collection from the clinical
// API.
//
// page.go decodes one response body into a strict Page. Any missing field,
// wrong type or pagination value below its minimum makes the page invalid
// (ErrInvalidPage).
//
// collector.go drives the loop. FetchPage re-issues the same logical request
// up to fetch.validation_attempts times when the body is invalid; each
// re-issue goes back through the transport with a fresh retry budget.
// Collect walks pages from 1 while hasNext is true, bounded by
// fetch.max_pages, and converts the accumulated raw entries into
// types.PatientRecord values only once every page has been fetched.
package collector

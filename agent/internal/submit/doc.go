// Package submit posts an assessment report back to the clinical API.
//
// The report is sent as JSON with POST to submit.path through the same
// transport.Client used for collection, so it carries the credential and
// correlation headers and takes part in transient-failure retries. A 2xx
// reply whose body says "success": false is treated as a rejection
// (ErrRejected).
package submit

// Package prusalink is the HTTP client for the PrusaLink printer API.
//
// A Client polls one printer. Refresh fetches the four status resources
// (/api/version, /api/v1/status, /api/v1/info, /api/v1/job) with digest
// authentication and assembles them into a Snapshot. The printer is Up for
// the cycle only when every resource came back 200 (parsed JSON) or 204
// (stored as an empty object); any other status, a transport error, a
// timeout, or a malformed body marks the whole printer Down — data from a
// half-failed cycle is not trusted.
//
// Lookup and the Snapshot accessors (String, Float) walk nested JSON with a
// fallback instead of an error, so optional fields the printer does not
// report degrade to "no metric emitted" rather than aborting the cycle.
package prusalink

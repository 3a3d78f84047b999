// Package catalog loads festival lineup files and normalizes them into a [models.Catalog].
//
// A lineup is CSV text with a header row. The columns "Original Name", "Matched Name" and "Spotify ID" are required;
// "Match Type" is optional. Rows are rejected one at a time (empty or "null" identifiers, unsupported match types,
// identifiers that are not exactly 22 alphanumeric characters) and the load continues; only a file with no surviving
// rows fails as a whole.
//
// Sources may be local paths, file:// URLs, or http(s) URLs. Remote sources go through an in-memory HTTP cache unless
// the caller asks to bypass it, in which case a cache-busting query parameter and no-cache headers are sent.
package catalog

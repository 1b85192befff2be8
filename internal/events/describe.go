package events

import "strings"

// Marker is appended, invisibly, to the description of every event this tool
// creates. On the next run any remote event whose description ends with this
// exact string is eligible for automatic deletion. Changing it orphans every
// event created under the old value, so treat it as versioned: bump only with
// a migration story.
const Marker = `<p style="display: none;">External Event Details</p>`

// markerV1 was an HTML comment. Canvas strips comments from stored
// descriptions, so it never matched on readback. Deprecated, never reuse.
const markerV1 = "<!--canautoupdate-->"

// WrapDescription prepares a raw description field for submission. A value
// starting with "http" becomes an anchor that opens in a new window; anything
// else passes through untouched. The Marker is appended later, at create
// time, not here.
func WrapDescription(d string) string {
	if !strings.HasPrefix(d, "http") {
		return d
	}
	// The URL lands inside a double-quoted HTML attribute, so only the
	// double quote needs rewriting. Anything more (a full URL-encode)
	// would mangle the ":" after the scheme and the URL's own escapes.
	u := strings.ReplaceAll(d, `"`, "%22")
	return `<p><a class="inline_disabled" href="` + u + `" target="_blank" rel="noopener">Open in new window</a></p>`
}

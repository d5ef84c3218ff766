package sub

import (
	"net/url"
	"strings"
)

// subPathPrefix is the fixed leading segment stripped before token parsing.
const subPathPrefix = "/sub"

// ResolveToken extracts the access token and optional profile identifier
// from the request path, falling back to the token query parameter when the
// path carries no segments. Absence is not an error here; an empty token is
// rejected later by Authorize.
func ResolveToken(path string, query url.Values) (token, profileID string) {
	path = strings.TrimPrefix(path, subPathPrefix)

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	if len(segments) > 0 {
		token = segments[0]
		if len(segments) > 1 {
			profileID = segments[1]
		}
		return token, profileID
	}

	return query.Get("token"), ""
}

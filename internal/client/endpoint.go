package client

import (
	"net/url"
	"strings"
)

// JoinURL combines the API base URL with an endpoint path.
//
// One trailing slash is removed from baseURL and path is given a leading slash if it lacks one, so
// "https://x.test/api/" + "users/5" and "https://x.test/api" + "/users/5" both give "https://x.test/api/users/5".
//
// Only the final character of baseURL is checked: a base URL ending in "//" keeps one of its slashes and the
// result contains a double slash. The result is not validated.
func JoinURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return baseURL + path
}

// withQuery appends query parameters to a composed URL, respecting any query string already present in the endpoint
func withQuery(rawURL string, query url.Values) string {
	if len(query) == 0 {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + query.Encode()
}

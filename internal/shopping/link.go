package shopping

import (
	"net/url"
	"strings"
)

const amazonSearchURL = "https://www.amazon.com/s"

// DefaultAssociateTag is the affiliate tag used when none is configured.
const DefaultAssociateTag = "demo-hackathon-20"

// Link builds an Amazon search URL for query. An empty query yields "".
func Link(query, tag string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	if tag == "" {
		tag = DefaultAssociateTag
	}

	v := url.Values{}
	v.Set("k", query)
	v.Set("tag", tag)
	return amazonSearchURL + "?" + v.Encode()
}

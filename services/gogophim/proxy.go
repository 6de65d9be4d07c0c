package gogophim

import "net/url"

// ProxyRewrite wraps a target URL in a public CORS relay's calling
// convention. Each rewrite is a pure function of the target URL.
type ProxyRewrite func(target string) string

// defaultProxies is the fallback chain, ordered by historical reliability.
// The order is a static preference ranking: the fetcher walks the chain
// front to back and stops at the first route that yields a valid payload.
var defaultProxies = []ProxyRewrite{
	func(target string) string {
		return "https://api.codetabs.com/v1/proxy?quest=" + url.QueryEscape(target)
	},
	func(target string) string {
		return "https://corsproxy.org/?" + url.QueryEscape(target)
	},
	func(target string) string {
		// thingproxy takes the raw URL as a path suffix, no escaping.
		return "https://thingproxy.freeboard.io/fetch/" + target
	},
}

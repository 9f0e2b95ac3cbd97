package edge

import "net/textproto"

// skippedHeaders 不进入快照：hop-by-hop 字段（RFC 7230）以及每次响应都应重新生成的字段。
var skippedHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
	"Proxy-Connection":    {},
	"Content-Length":      {},
	"Date":                {},
	"Set-Cookie":          {},
	"X-Request-Id":        {},
	"X-Assets-Cache":      {},
}

func isSkippedHeader(key string) bool {
	_, ok := skippedHeaders[textproto.CanonicalMIMEHeaderKey(key)]
	return ok
}

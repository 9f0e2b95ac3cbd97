// Package edge 缓存完整的 HTTP 响应（状态码、头部、正文）。中间件位于版本与语言解析之后，
// 缓存键由请求 URL 与解析出的版本、语言共同决定。
package edge

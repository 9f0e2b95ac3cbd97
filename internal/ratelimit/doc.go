// Package ratelimit 按客户端地址做准入控制，位于请求管线的最前端：被拒绝的请求
// 不会触达任何缓存层。提供进程内令牌桶与 Redis 固定窗口两种实现。
package ratelimit

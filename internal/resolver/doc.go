// Package resolver 实现分层读取：快速缓存命中直接返回，未命中时回源读取，
// 再通过后台 Writer 异步回填快速缓存。版本与语言解析也在这里完成。
package resolver

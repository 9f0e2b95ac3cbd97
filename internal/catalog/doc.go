// Package catalog 维护对外提供的资源文档清单：每个条目描述路由、对象存储中的逻辑路径、
// 是否按语言拆分，以及内容是否原样透传。内置条目在 init 中注册。
package catalog

// Package origin 提供只读的源站对象存储客户端：S3 兼容存储（R2/MinIO）与本地目录两种实现。
// 源站是内容的唯一来源，本服务从不写入。
package origin

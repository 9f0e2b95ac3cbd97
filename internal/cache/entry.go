package cache

import (
	"encoding/binary"
	"errors"
	"time"
)

// 条目布局：8 字节大端 expiresAt（UnixNano，0 表示不过期）|| 原始值。
const entryHeaderSize = 8

var errShortEntry = errors.New("cache entry truncated")

func encodeEntry(value []byte, ttl time.Duration, now time.Time) []byte {
	expiresAt := int64(0)
	if ttl > 0 {
		expiresAt = now.Add(ttl).UnixNano()
	}
	buf := make([]byte, entryHeaderSize+len(value))
	binary.BigEndian.PutUint64(buf[:entryHeaderSize], uint64(expiresAt))
	copy(buf[entryHeaderSize:], value)
	return buf
}

// decodeEntry 返回值的副本，expired 为 true 时 value 为空。
func decodeEntry(raw []byte, now time.Time) (value []byte, expired bool, err error) {
	if len(raw) < entryHeaderSize {
		return nil, false, errShortEntry
	}
	expiresAt := int64(binary.BigEndian.Uint64(raw[:entryHeaderSize]))
	if expiresAt > 0 && now.UnixNano() >= expiresAt {
		return nil, true, nil
	}
	return append([]byte(nil), raw[entryHeaderSize:]...), false, nil
}

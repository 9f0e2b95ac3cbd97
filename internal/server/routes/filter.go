package routes

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/deadlock-api/assets-api/internal/content"
)

// numberEquals 比较 JSON 数字字段与整数，字段缺失或不是整数时返回 false。
func numberEquals(value any, want int64) bool {
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		return err == nil && n == want
	case float64:
		return v == float64(want)
	}
	return false
}

func stringField(obj content.Object, field string) string {
	s, _ := obj[field].(string)
	return s
}

// parsePositive 解析严格的正整数路径参数。
func parsePositive(raw string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func parseInteger(raw string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return n, err == nil
}

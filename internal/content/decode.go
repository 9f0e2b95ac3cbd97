package content

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Decoder 将原始字节转换为调用方需要的类型。返回 error 表示内容损坏。
type Decoder[T any] func(raw []byte) (T, error)

var (
	errEmptyPayload = errors.New("empty payload")
	errNullPayload  = errors.New("null payload")
)

// Text 原样返回文本内容，不做校验。
func Text(raw []byte) (string, error) {
	return string(raw), nil
}

// Raw 原样返回字节，用于不保证是严格 JSON 的原始数据。
func Raw(raw []byte) ([]byte, error) {
	return raw, nil
}

// RawJSON 校验 JSON 合法且非 null，返回与存储完全一致的字节。
func RawJSON(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errEmptyPayload
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, errNullPayload
	}
	if !json.Valid(trimmed) {
		return nil, errors.New("invalid json")
	}
	return json.RawMessage(raw), nil
}

// JSON 将内容解码为通用结构，数字保留为 json.Number。
func JSON(raw []byte) (any, error) {
	return Into[any](raw)
}

// Into 将内容解码为指定类型；空内容与 null 视为损坏。
func Into[T any](raw []byte) (T, error) {
	var out T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return out, errEmptyPayload
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return out, errNullPayload
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// Object 是解码后的 JSON 对象。
type Object = map[string]any

// Objects 解码 JSON 数组，供路由层过滤使用。
func Objects(raw []byte) ([]Object, error) {
	return Into[[]Object](raw)
}

package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供请求 ID、路径与解析后的版本/语言字段，供请求日志复用。
func RequestFields(requestID, path, version, language string) logrus.Fields {
	fields := logrus.Fields{
		"path":     path,
		"version":  version,
		"language": language,
	}
	if requestID != "" {
		fields["request_id"] = requestID
	}
	return fields
}

// TierFields 描述某个缓存层级上的一次操作。
func TierFields(action, tier, key string) logrus.Fields {
	return logrus.Fields{
		"action": action,
		"tier":   tier,
		"key":    key,
	}
}

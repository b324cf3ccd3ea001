package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供端点/实体/路径字段，供请求日志复用。
func RequestFields(requestID, endpoint, root, entity, path string) logrus.Fields {
	fields := logrus.Fields{
		"request_id": requestID,
		"endpoint":   endpoint,
	}
	if root != "" {
		fields["root"] = root
	}
	if entity != "" {
		fields["entity"] = entity
	}
	if path != "" {
		fields["path"] = path
	}
	return fields
}

// ToolFields 描述一次外部工具链调用。
func ToolFields(args []string, exitCode int) logrus.Fields {
	return logrus.Fields{
		"tool_args": args,
		"exit_code": exitCode,
	}
}

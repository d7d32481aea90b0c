package electric

import "errors"

// 配置错误原因
var (
	ErrNoCycles        = errors.New("no cycles configured")
	ErrUnderdetermined = errors.New("not enough equations for the unknown branch currents")
	ErrSingular        = errors.New("circuit equations are singular")
)

// ConfigurationError 本轮重算的致命配置错误，支路与导体状态保持不变
type ConfigurationError struct {
	Op  string // 失败阶段
	Err error  // 原因
}

func (e *ConfigurationError) Error() string {
	return "circuit " + e.Op + ": " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IsConfigurationError 判断是否为配置错误
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

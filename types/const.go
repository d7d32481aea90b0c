package types

// 默认参数常量定义
var (
	PivotTolerance = 1e-12 // LU 主元奇异阈值
	OpenCurrent    = 0.0   // 断路支路电流
)

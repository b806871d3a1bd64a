package constant

// 系统级错误码 (1xxx)

// 系统级错误码
const (
	CodeSuccess            = 0    // 操作成功
	CodeSystemError        = 1000 // 系统内部错误，对外只返回 internal error
	CodeDatabaseError      = 1001 // 数据库操作失败
	CodeRedisError         = 1002 // Redis缓存服务错误
	CodeInternalError      = 1003 // 内部服务错误
	CodeServiceUnavailable = 1004 // 服务暂时不可用
	CodeTimeout            = 1005 // 请求处理超时
	CodeRateLimit          = 1006 // 请求频率超过限制
	CodeRouteNotFound      = 1007 // 路由不存在
)

// 参数错误码
const (
	CodeInvalidParams     = 1100 // 参数格式错误
	CodeMissingParams     = 1101 // 缺少必要参数
	CodeParamsFormatError = 1102 // 参数值格式不正确
	CodeParamsTypeError   = 1103 // 参数类型错误
	CodeParamsRangeError  = 1104 // 参数范围错误（金额区间）
)

// 认证授权错误码
const (
	CodeUnauthorized = 1200 // 缺少 API Key 或管理员令牌
	CodeTokenExpired = 1201 // 管理员令牌已过期
	CodeTokenInvalid = 1202 // 管理员令牌无效
	CodeAccessDenied = 1204 // 密钥等级不足
)

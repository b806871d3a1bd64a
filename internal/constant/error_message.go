package constant

import "net/http"

// ErrorInfo 错误信息结构
type ErrorInfo struct {
	CN string `json:"cn"` // 中文错误信息
	EN string `json:"en"` // 英文错误信息，对外返回
}

// ErrorMessages 错误信息映射
var ErrorMessages = map[int]ErrorInfo{
	// 系统错误
	CodeSuccess:            {"操作成功", "Success"},
	CodeSystemError:        {"系统错误", "internal error"},
	CodeDatabaseError:      {"数据库错误", "internal error"},
	CodeRedisError:         {"缓存错误", "internal error"},
	CodeInternalError:      {"内部错误", "internal error"},
	CodeServiceUnavailable: {"服务暂时不可用", "Service unavailable"},
	CodeTimeout:            {"请求超时", "Request timeout"},
	CodeRateLimit:          {"请求过于频繁", "Too many requests, please slow down"},
	CodeRouteNotFound:      {"接口不存在", "Not Found"},

	// 参数错误
	CodeInvalidParams:     {"参数错误", "Invalid request"},
	CodeMissingParams:     {"缺少参数", "Missing required parameters"},
	CodeParamsFormatError: {"参数格式错误", "Invalid parameter format"},
	CodeParamsTypeError:   {"参数类型错误", "Invalid parameter type"},
	CodeParamsRangeError:  {"金额超出范围", "Amount must be between ₹1 and ₹1,00,000"},

	// 认证错误
	CodeUnauthorized: {"缺少凭证", "API key required"},
	CodeTokenExpired: {"令牌已过期", "Unauthorized"},
	CodeTokenInvalid: {"令牌无效", "Unauthorized"},
	CodeAccessDenied: {"权限不足", "This API key cannot access this resource"},

	// 密钥错误
	CodeApiKeyInvalid:     {"密钥无效", "Invalid API key"},
	CodeApiKeyTypeInvalid: {"密钥类型无效", "Key type must be publishable or secret"},

	// 订单错误
	CodeOrderNotFound:      {"订单不存在", "Order not found"},
	CodeOrderStatusInvalid: {"订单状态无效", "Order is not pending"},
	CodeOrderAmountInvalid: {"订单金额无效", "Valid amount is required. Provide amount as number (in rupees) or string with currency symbol (₹100, 100.50, etc.)"},
	CodeOrderExpired:       {"订单已过期", "Order has expired"},
	CodeOrderUTRMissing:    {"订单未提交UTR", "UTR has not been submitted for this order"},
	CodeOrderUTRInvalid:    {"UTR格式错误", "UTR must be between 8 and 20 characters"},

	// 收款码错误
	CodeGatewayNotConfigured: {"收款码未配置", "Payment gateway not configured"},
	CodeUpiIDRequired:        {"缺少UPI ID", "UPI ID is required"},
	CodeQRImageInvalid:       {"仅支持图片", "Only image files are allowed"},
	CodeQRImageTooLarge:      {"图片过大", "QR image must be 2MB or smaller"},

	// 商品错误
	CodeProductNotFound: {"商品不存在", "Product not found"},
	CodeProductInvalid:  {"商品参数无效", "Invalid product"},

	// 通知错误
	CodeNotifyFailed: {"通知发送失败", "Webhook delivery failed"},

	// 账户错误
	CodeAccountNotFound: {"账户不存在", "User not found"},
}

// errorStatus 错误码 -> HTTP 状态；未列出的系统码为 500，其余为 400
var errorStatus = map[int]int{
	CodeSuccess:            http.StatusOK,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
	CodeTimeout:            http.StatusGatewayTimeout,
	CodeRateLimit:          http.StatusTooManyRequests,
	CodeRouteNotFound:      http.StatusNotFound,

	CodeUnauthorized:  http.StatusUnauthorized,
	CodeTokenExpired:  http.StatusUnauthorized,
	CodeTokenInvalid:  http.StatusUnauthorized,
	CodeAccessDenied:  http.StatusForbidden,
	CodeApiKeyInvalid: http.StatusUnauthorized,

	CodeOrderNotFound:        http.StatusNotFound,
	CodeProductNotFound:      http.StatusNotFound,
	CodeAccountNotFound:      http.StatusNotFound,
	CodeGatewayNotConfigured: http.StatusServiceUnavailable,
	CodeQRImageTooLarge:      http.StatusRequestEntityTooLarge,
	CodeNotifyFailed:         http.StatusBadGateway,
}

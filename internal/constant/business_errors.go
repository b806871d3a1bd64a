package constant

// 业务级错误码 (2xxx)

// API 密钥相关错误码
const (
	CodeApiKeyInvalid     = 2004 // 密钥格式错误、不存在或已吊销，统一提示
	CodeApiKeyTypeInvalid = 2005 // 申请的密钥类型不支持
)

// 订单相关错误码
const (
	CodeOrderNotFound      = 2100 // 订单不存在
	CodeOrderStatusInvalid = 2102 // 订单不是 pending，无法操作
	CodeOrderAmountInvalid = 2103 // 金额无法解析
	CodeOrderExpired       = 2104 // 订单已过期
	CodeOrderUTRMissing    = 2108 // 审核前必须提交 UTR（order.requireUtr 开启时）
	CodeOrderUTRInvalid    = 2109 // UTR 长度不合法
)

// 收款码相关错误码
const (
	CodeGatewayNotConfigured = 2206 // 未配置启用中的收款码
	CodeUpiIDRequired        = 2207 // 缺少 UPI ID
	CodeQRImageInvalid       = 2208 // 上传文件不是图片
	CodeQRImageTooLarge      = 2209 // 上传文件超过大小限制
)

// 商品相关错误码
const (
	CodeProductNotFound = 2600 // 商品不存在或已下架
	CodeProductInvalid  = 2601 // 商品参数无效
)

// 通知相关错误码
const (
	CodeNotifyFailed = 2700 // webhook 投递失败，仅记录日志
)

// 账户相关错误码
const (
	CodeAccountNotFound = 2920 // 管理员账户不存在
)

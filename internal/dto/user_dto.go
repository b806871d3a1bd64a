package dto

// Principal 管理端令牌解析出的身份
type Principal struct {
	UserID          string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
}

package types

// ErrorMessage 所有失败响应使用的结构，客户端优先展示 ExtraDetails
type ErrorMessage struct {
	Message      string `json:"message"`
	ExtraDetails string `json:"extraDetails,omitempty"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Token   string `json:"token,omitempty"` // 签发失败时为空
}

type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IsAdmin  bool   `json:"isAdmin"`
	Image    string `json:"image"`
}

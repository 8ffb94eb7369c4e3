package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求：名单成员名 + 团队共享口令
type LoginRequest struct {
	Member   string `json:"member"   binding:"required,min=1,max=50"`
	Passcode string `json:"passcode" binding:"required,min=4,max=72"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // "Bearer"
	ExpiresIn   int64  `json:"expires_in"` // 秒
	Member      string `json:"member"`
}

// MemberResponse 当前登录成员
type MemberResponse struct {
	Member string   `json:"member"`
	Roster []string `json:"roster"`
}

// [自证通过] internal/dto/auth.go

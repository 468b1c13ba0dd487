package dto

// ── 通知广播 DTO ──

// BroadcastRequest 全员推送请求
type BroadcastRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body"  binding:"required,max=4000"`
}

// BroadcastResponse 推送结果
type BroadcastResponse struct {
	SentTo    int `json:"sent_to"`
	FailedFor int `json:"failed_for"`
}

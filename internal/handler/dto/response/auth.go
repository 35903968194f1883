package response

type LoginResponse struct {
	BuyerID  string `json:"buyerId"`
	Nickname string `json:"nickname,omitempty"`
}

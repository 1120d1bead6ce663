package transport

type WorkOrderRequest struct {
	ID          string            `json:"id"`
	AssetID     string            `json:"asset_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Priority    int               `json:"priority"`
	Metadata    map[string]string `json:"metadata"`
}

type WorkOrderStatusRequest struct {
	Status string `json:"status"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

// RefreshRequest may omit SessionID when the caller already carries a token.
type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

package toggle_block

// ToggleBlockRequest HTTP request model
type ToggleBlockRequest struct {
	Blocked bool `json:"blocked"`
}

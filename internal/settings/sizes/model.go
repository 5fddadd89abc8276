package sizes

// DefaultLevel is assigned to sizes created by a sync.
const DefaultLevel = "A"

// Size is a billboard size and the pricing level it belongs to.
type Size struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type SyncResult struct {
	Added []Size `json:"added"`
}

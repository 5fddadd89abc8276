package municipalities

// Municipality is a municipalities row.
type Municipality struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// SyncResult lists the municipalities created by a sync.
type SyncResult struct {
	Added []Municipality `json:"added"`
}

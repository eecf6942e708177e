package dto

// ChangeResult reports how an optimistic list change settled.
type ChangeResult[T any] struct {
	ID    string `json:"id"`
	State string `json:"state"`
	// Items is the list as it stands after the change settled.
	Items []T `json:"items"`
}

package models

// Movement is one stock adjustment applied to a product. Delta is positive
// for entrances (restocking) and negative for exits (sales, shrinkage).
type Movement struct {
	ID        int    `json:"id"`
	ProductID int    `json:"product_id"`
	Delta     int    `json:"delta"`
	CreatedAt string `json:"created_at"`
}

// Kind returns "entrance" or "exit" depending on the sign of the delta.
func (m Movement) Kind() string {
	if m.Delta < 0 {
		return "exit"
	}
	return "entrance"
}

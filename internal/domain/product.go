package domain

// Product is a catalog record. Order lines snapshot the price at add-time,
// so a product referenced by an order line is never re-read for totals.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
}

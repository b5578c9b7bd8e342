package models

// Product is the catalog record. Price is in whole rupees; unit prices are
// always read from this record at pricing time, never from client input.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// ProductUpdate carries an admin edit. Nil fields are left unchanged.
type ProductUpdate struct {
	Price  *int  `json:"price" binding:"omitempty,gt=0"`
	Stock  *int  `json:"stock" binding:"omitempty,gte=0"`
	Active *bool `json:"active"`
}

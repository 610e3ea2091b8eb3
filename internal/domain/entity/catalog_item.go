package entity

// CatalogItem maps a SKU (or the catalog document id, used interchangeably by
// older receipts) to a display name. The catalog is owned by the external
// store and is read-only here.
type CatalogItem struct {
	ID   string
	SKU  string
	Name string
}

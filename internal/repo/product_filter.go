package repo

type ProductFilter struct {
	Name       string
	CategoryID *int
	SupplierID *int
	Offset     *int
	Limit      *int
}

package domain

// Shop is a single business location read from the workbook.
// AccountName is required and is the dedup key across sheets.
type Shop struct {
	ShopID      string
	AccountName string
	BillingCity string
	BillingZip  string
}

func (s Shop) IsEmpty() bool {
	return s.ShopID == "" && s.AccountName == "" && s.BillingCity == "" && s.BillingZip == ""
}

package domain

// Enrichment is what the place lookup learned about a shop.
type Enrichment struct {
	Website string // "" when the listing has none
	MapsURL string // canonical maps URL
}

type Classification struct {
	HasWebsite     bool
	DirectOrdering bool // implies HasWebsite
	Note           string
}

// Row is one line of the classification report.
type Row struct {
	Shop    Shop
	Website string
	MapsURL string
	Classification
}

// Outreach is the message copy for one shop, aligned with its Row.
type Outreach struct {
	ShopID      string
	AccountName string
	Subject     string
	Body        string
	SMS         string
}

// Notes written into Row.Note.
const (
	NoteNoAPIKey       = "API key not provided"
	NotePlaceNotFound  = "Place not found"
	NoteNoWebsite      = "No website"
	NoteThirdPartyOnly = "Website appears to be third-party ordering"
)

package domain

// Listing is a participant's current offer of reservation hours. Hours
// accumulate across addListing calls; the price of the latest call
// applies to the whole accumulated offer.
type Listing struct {
	Owner        ParticipantID `json:"owner"`
	HoursOffered int64         `json:"hours_offered"`
	PricePerHour int64         `json:"price_per_hour"`
}

func (l Listing) IsEmpty() bool {
	return l.HoursOffered == 0
}

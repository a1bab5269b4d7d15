package entity

// Media requirement classes for tweet service types.
const (
	RequireNone  = ""
	RequireImage = "image"
)

// TweetServiceType is a bookable promotion format (tweet, thread, space...).
// PriceRate is a percentage applied to the base amount, 100 meaning no change.
type TweetServiceType struct {
	Id        int64   `json:"id" bson:"id"`
	Name      string  `json:"name" bson:"name"`
	Require   string  `json:"require" bson:"require"`
	PriceRate float64 `json:"price_rate" bson:"price_rate"`
	MediaMin  int     `json:"media_min" bson:"media_min"`
	MediaMax  int     `json:"media_max" bson:"media_max"`
}

// RequiresMedia reports whether orders of this type must attach media.
func (t TweetServiceType) RequiresMedia() bool {
	return t.Require == RequireImage
}

// ServiceCatalog is the full service offering fetched from the marketplace.
type ServiceCatalog struct {
	TweetTypes []TweetServiceType `json:"tweet_types" bson:"tweet_types"`
	Exts       []TweetServiceType `json:"exts" bson:"exts"`
}

// TweetType looks up a tweet service type by id.
func (c *ServiceCatalog) TweetType(id int64) (TweetServiceType, bool) {
	for _, t := range c.TweetTypes {
		if t.Id == id {
			return t, true
		}
	}
	return TweetServiceType{}, false
}

// Ext looks up an add-on service type by id.
func (c *ServiceCatalog) Ext(id int64) (TweetServiceType, bool) {
	for _, t := range c.Exts {
		if t.Id == id {
			return t, true
		}
	}
	return TweetServiceType{}, false
}

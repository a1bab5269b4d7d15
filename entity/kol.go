package entity

// Kol is a promotable influencer listed on the marketplace.
type Kol struct {
	Id        int64   `json:"id" bson:"id"`
	Name      string  `json:"name" bson:"name"`
	Handle    string  `json:"handle" bson:"handle"`
	Price     float64 `json:"price" bson:"price"`
	Followers int64   `json:"followers" bson:"followers"`
	Tags      []string `json:"tags" bson:"tags"`
}

// KolTarget is a selected promotion target with its quoted price.
type KolTarget struct {
	Id    int64   `json:"id" bson:"id"`
	Price float64 `json:"price" bson:"price"`
}

// KolSelection is the assistant's resolution of a user request into
// matched and unmatched influencer names plus priced targets.
type KolSelection struct {
	Has    []string    `json:"has"`
	Miss   []string    `json:"miss"`
	KolIds []KolTarget `json:"kol_ids"`
}

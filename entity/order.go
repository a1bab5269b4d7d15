package entity

import "time"

// OrderDraft is the create-order request sent to the marketplace.
type OrderDraft struct {
	ProjectId             string      `json:"project_id" validate:"required"`
	KolIds                []KolTarget `json:"kol_ids" validate:"required,min=1"`
	Amount                string      `json:"amount" validate:"required"`
	PromotionalMaterials  string      `json:"promotional_materials" validate:"required"`
	PromotionalStartAt    string      `json:"promotional_start_at" validate:"required"`
	PromotionalEndAt      string      `json:"promotional_end_at" validate:"required"`
	TweetServiceTypeId    int64       `json:"tweet_service_type_id" validate:"required"`
	Medias                []string    `json:"medias,omitempty"`
	ExtServiceTypeIds     []int64     `json:"ext_tweet_service_type_ids,omitempty"`
}

// Order is the marketplace's record of a created order.
type Order struct {
	OrderNo string `json:"order_no" bson:"order_no"`
	OrderId string `json:"order_id" bson:"order_id"`
}

// OrderConfirmation is the final snapshot persisted into the chat
// transcript once an order is paid.
type OrderConfirmation struct {
	OrderNo       string    `json:"order_no" bson:"order_no"`
	Amount        string    `json:"amount" bson:"amount"`
	TxHash        string    `json:"tx_hash" bson:"tx_hash"`
	TweetTypeName string    `json:"tweet_type_name" bson:"tweet_type_name"`
	ExtNames      []string  `json:"ext_names,omitempty" bson:"ext_names,omitempty"`
	StartAt       string    `json:"start_at" bson:"start_at"`
	EndAt         string    `json:"end_at" bson:"end_at"`
	KolCount      int       `json:"kol_count" bson:"kol_count"`
	PaidAt        time.Time `json:"paid_at" bson:"paid_at"`
}

package orderflow

import (
	"KolDesk/entity"
	"context"
)

// StepID is a unique identifier for a step within the order flow.
type StepID string

// FormTag names the interactive form a step renders, or none.
type FormTag string

const (
	FormNone            FormTag = ""
	FormSelectProject   FormTag = "select_project"
	FormCreateProject   FormTag = "create_project"
	FormSelectTweetType FormTag = "select_tweet_type"
	FormSelectAddOns    FormTag = "select_add_ons"
	FormUploadMedia     FormTag = "upload_media"
	FormMaterials       FormTag = "materials"
	FormSchedule        FormTag = "schedule"
)

// FormInput carries a user's submission for the current interactive step.
type FormInput struct {
	Form        FormTag              `json:"form"`
	ProjectId   string               `json:"project_id,omitempty"`
	CreateNew   bool                 `json:"create_new,omitempty"`
	NewProject  *entity.ProjectDraft `json:"new_project,omitempty"`
	TweetTypeId int64                `json:"tweet_type_id,omitempty"`
	AddOnIds    []int64              `json:"add_on_ids,omitempty"`
	MediaUrls   []string             `json:"media_urls,omitempty"`
	Materials   string               `json:"materials,omitempty"`
	StartAt     string               `json:"start_at,omitempty"`
	EndAt       string               `json:"end_at,omitempty"`
}

// MarketGateway is the marketplace HTTP API consumed by the flow.
type MarketGateway interface {
	ListProjects(ctx context.Context, userUUID string) ([]entity.Project, error)
	CreateProject(ctx context.Context, userUUID string, draft entity.ProjectDraft) (*entity.Project, error)
	FetchServiceCatalog(ctx context.Context) (*entity.ServiceCatalog, error)
	CreateOrder(ctx context.Context, userUUID string, draft entity.OrderDraft) (*entity.Order, error)
	PayOrder(ctx context.Context, orderNo, txHash string) error
}

// ChainGateway is the wallet-bridge contract the payment steps call.
// Every call is a suspension point; implementations block until the
// underlying transaction settles or fails.
type ChainGateway interface {
	ActiveChain(ctx context.Context, wallet string) (int64, error)
	Balance(ctx context.Context, wallet string) (float64, error)
	Allowance(ctx context.Context, wallet, spender string) (float64, error)
	Approve(ctx context.Context, wallet, spender string, amount float64) (string, error)
	Issue(ctx context.Context, wallet string, amount float64, orderNo string) (string, error)
	WaitForReceipt(ctx context.Context, txHash string) error
}

// SessionGateway verifies the user's login and wallet binding.
type SessionGateway interface {
	Verify(ctx context.Context, userUUID string) (*entity.Session, error)
}

// ArtifactSink is the conversation transcript the flow reports into.
type ArtifactSink interface {
	Append(ctx context.Context, msg *entity.ChatMessage) (string, error)
	UpdateContent(ctx context.Context, id string, content any) error
	Delete(ctx context.Context, id string) error
}

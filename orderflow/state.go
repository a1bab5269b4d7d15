package orderflow

import (
	"KolDesk/entity"
	"time"

	"github.com/google/uuid"
)

// PaymentState is the per-action payment submission marker.
type PaymentState string

const (
	PaymentAbsent     PaymentState = ""
	PaymentProcessing PaymentState = "processing"
	PaymentCompleted  PaymentState = "completed"
)

// OrderParams is the accumulator of everything collected across the
// interactive and automated steps of one order attempt.
type OrderParams struct {
	ProjectId            string             `json:"project_id" bson:"project_id"`
	ProjectName          string             `json:"project_name" bson:"project_name"`
	ProjectDesc          string             `json:"project_desc" bson:"project_desc"`
	ProjectWebsite       string             `json:"project_website" bson:"project_website"`
	ProjectIcon          string             `json:"project_icon" bson:"project_icon"`
	TweetServiceTypeId   int64              `json:"tweet_service_type_id" bson:"tweet_service_type_id"`
	ExtServiceTypeIds    []int64            `json:"ext_tweet_service_type_ids" bson:"ext_tweet_service_type_ids"`
	Medias               []string           `json:"medias" bson:"medias"`
	PromotionalMaterials string             `json:"promotional_materials" bson:"promotional_materials"`
	PromotionalStartAt   string             `json:"promotional_start_at" bson:"promotional_start_at"`
	PromotionalEndAt     string             `json:"promotional_end_at" bson:"promotional_end_at"`
	KolIds               []entity.KolTarget `json:"kol_ids" bson:"kol_ids"`
	Amount               string             `json:"amount" bson:"amount"`
}

// ThinkingEntry is the progress log for one step. Entries are written
// once per step; re-entering a step never duplicates them.
type ThinkingEntry struct {
	Step     StepID   `json:"step" bson:"step"`
	Messages []string `json:"messages" bson:"messages"`
}

// FlowState is the full mutable state of one order flow. It is passed
// to and returned from the coordinator explicitly; nothing about a flow
// lives in package globals. A failure snapshot is a deep copy of this
// value, so capture and restore are structural.
type FlowState struct {
	ActionID       string          `json:"action_id" bson:"action_id"`
	UserUUID       string          `json:"user_uuid" bson:"user_uuid"`
	ConversationId string          `json:"conversation_id" bson:"conversation_id"`
	Status         FlowStatus      `json:"status" bson:"status"`
	CurrentStep    StepID          `json:"current_step" bson:"current_step"`
	Params         OrderParams     `json:"params" bson:"params"`
	Thinking       []ThinkingEntry `json:"thinking" bson:"thinking"`

	// Caches filled by automated fetch steps.
	Catalog  *entity.ServiceCatalog `json:"catalog,omitempty" bson:"catalog,omitempty"`
	Projects []entity.Project       `json:"projects,omitempty" bson:"projects,omitempty"`
	Uploaded []entity.Media         `json:"uploaded,omitempty" bson:"uploaded,omitempty"`

	// Session and payment bookkeeping.
	Wallet        string       `json:"wallet" bson:"wallet"`
	OrderNo       string       `json:"order_no" bson:"order_no"`
	OrderId       string       `json:"order_id" bson:"order_id"`
	TxHash        string       `json:"tx_hash" bson:"tx_hash"`
	NeedsApproval bool         `json:"needs_approval" bson:"needs_approval"`
	WrongChain    bool         `json:"wrong_chain" bson:"wrong_chain"`
	Payment       PaymentState `json:"payment" bson:"payment"`

	// ProgressMsgId is the in-progress transcript artifact being updated
	// as the flow advances.
	ProgressMsgId string    `json:"progress_msg_id" bson:"progress_msg_id"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// NewFlowState creates an idle flow for a conversation.
func NewFlowState(userUUID, conversationId string) *FlowState {
	return &FlowState{
		ActionID:       uuid.NewString(),
		UserUUID:       userUUID,
		ConversationId: conversationId,
		Status:         StatusIdle,
		UpdatedAt:      time.Now(),
	}
}

// setStatus applies a validated status transition.
func (s *FlowState) setStatus(to FlowStatus) error {
	if err := ValidateTransition(s.Status, to); err != nil {
		return err
	}
	s.Status = to
	s.UpdatedAt = time.Now()
	return nil
}

// HasThinking reports whether a step already wrote its log entry.
func (s *FlowState) HasThinking(step StepID) bool {
	for _, e := range s.Thinking {
		if e.Step == step {
			return true
		}
	}
	return false
}

// AppendThinking writes a step's first message, or appends to its
// existing entry. The first message per step is deduplicated.
func (s *FlowState) AppendThinking(step StepID, msg string) {
	for i := range s.Thinking {
		if s.Thinking[i].Step == step {
			s.Thinking[i].Messages = append(s.Thinking[i].Messages, msg)
			return
		}
	}
	s.Thinking = append(s.Thinking, ThinkingEntry{Step: step, Messages: []string{msg}})
}

// ClearThinking drops the log entries for the given steps so they are
// regenerated after a go-back.
func (s *FlowState) ClearThinking(steps ...StepID) {
	drop := make(map[StepID]bool, len(steps))
	for _, st := range steps {
		drop[st] = true
	}
	kept := s.Thinking[:0]
	for _, e := range s.Thinking {
		if !drop[e.Step] {
			kept = append(kept, e)
		}
	}
	s.Thinking = kept
}

// Snapshot returns a deep copy of the flow state. The copy is the
// execution snapshot attached to retryable failures.
func (s *FlowState) Snapshot() *FlowState {
	snap := *s

	snap.Params.ExtServiceTypeIds = append([]int64(nil), s.Params.ExtServiceTypeIds...)
	snap.Params.Medias = append([]string(nil), s.Params.Medias...)
	snap.Params.KolIds = append([]entity.KolTarget(nil), s.Params.KolIds...)

	snap.Thinking = make([]ThinkingEntry, len(s.Thinking))
	for i, e := range s.Thinking {
		snap.Thinking[i] = ThinkingEntry{
			Step:     e.Step,
			Messages: append([]string(nil), e.Messages...),
		}
	}

	if s.Catalog != nil {
		catalog := entity.ServiceCatalog{
			TweetTypes: append([]entity.TweetServiceType(nil), s.Catalog.TweetTypes...),
			Exts:       append([]entity.TweetServiceType(nil), s.Catalog.Exts...),
		}
		snap.Catalog = &catalog
	}
	snap.Projects = append([]entity.Project(nil), s.Projects...)
	snap.Uploaded = append([]entity.Media(nil), s.Uploaded...)

	return &snap
}

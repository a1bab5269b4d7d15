package orderflow

import (
	"KolDesk/entity"
	"KolDesk/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Coordinator owns the authoritative progression through the step
// catalogue for order flows. It is safe for use from concurrent
// request handlers; each individual FlowState must still be driven by
// one caller at a time.
type Coordinator struct {
	market  MarketGateway
	chain   ChainGateway
	session SessionGateway
	sink    ArtifactSink

	validate      *validator.Validate
	log           *slog.Logger
	requiredChain int64
	spender       string

	mu      sync.Mutex
	failing map[string]bool // actions with a failure currently being handled
	closed  map[string]bool // actions completed or cancelled for good
	paying  string          // action currently mid-payment, process-wide
}

// NewCoordinator wires the flow engine to its gateways.
func NewCoordinator(market MarketGateway, chain ChainGateway, session SessionGateway, sink ArtifactSink, requiredChain int64, spender string, log *slog.Logger) *Coordinator {
	return &Coordinator{
		market:        market,
		chain:         chain,
		session:       session,
		sink:          sink,
		validate:      validator.New(),
		log:           log.With(sl.Module("orderflow")),
		requiredChain: requiredChain,
		spender:       spender,
		failing:       make(map[string]bool),
		closed:        make(map[string]bool),
	}
}

// StartFlow begins an order flow for the given target selection. It
// may only be called on an idle flow; a second call for the same state
// is rejected. An empty target list short-circuits into a non-retryable
// failure artifact without creating an order.
func (c *Coordinator) StartFlow(ctx context.Context, s *FlowState, sel entity.KolSelection) error {
	if s.Status != StatusIdle {
		return ErrFlowActive
	}
	if c.isClosed(s.ActionID) {
		return ErrFlowActive
	}

	if len(sel.KolIds) == 0 {
		msg := "None of the requested influencers are available."
		if len(sel.Miss) > 0 {
			msg = fmt.Sprintf("Could not find: %s.", strings.Join(sel.Miss, ", "))
		}
		return c.fail(ctx, s, newFlowError(KindNoMatchingTargets, msg, nil))
	}

	s.Thinking = nil
	s.Params.KolIds = sel.KolIds

	if len(sel.Miss) > 0 {
		s.AppendThinking(StepAdvisory, fmt.Sprintf(
			"Matched %s. Could not find %s, continuing without them.",
			strings.Join(sel.Has, ", "), strings.Join(sel.Miss, ", ")))
	}

	if err := s.setStatus(StatusRunning); err != nil {
		return err
	}

	id, err := c.sink.Append(ctx, &entity.ChatMessage{
		ConversationId: s.ConversationId,
		UserUUID:       s.UserUUID,
		Role:           entity.RoleAssistant,
		Kind:           entity.KindProgress,
		Content:        progressContent(s),
		CreatedAt:      time.Now(),
	})
	if err != nil {
		return c.fail(ctx, s, newFlowError(KindCreateFailed, "could not start the order conversation", err))
	}
	s.ProgressMsgId = id

	c.log.Info("order flow started",
		slog.String("action_id", s.ActionID),
		slog.Int("targets", len(sel.KolIds)),
	)

	return c.run(ctx, s, StepVerifySession)
}

// run advances the flow from the given step until it pauses for user
// input, fails, or completes. Automated steps execute inline; every
// failure is routed through the single failure path.
func (c *Coordinator) run(ctx context.Context, s *FlowState, step StepID) error {
	for {
		def, ok := Definition(step)
		if !ok {
			return c.fail(ctx, s, newFlowError(KindRestoreFailed, fmt.Sprintf("unknown step %q", step), nil))
		}
		s.CurrentStep = step

		// A step's start message is written at most once, so re-entering
		// the same step never duplicates the log.
		if !s.HasThinking(step) {
			s.AppendThinking(step, def.StartMessage)
		}

		if IsInteractive(step) {
			if s.Status != StatusAwaitingInput {
				if err := s.setStatus(StatusAwaitingInput); err != nil {
					return c.fail(ctx, s, err)
				}
			}
			c.publishProgress(ctx, s)
			return nil
		}
		c.publishProgress(ctx, s)

		next, err := c.execute(ctx, s, step)
		if err != nil {
			return c.fail(ctx, s, err)
		}
		if next == "" {
			// Duplicate callback for an already-handled step: abstain.
			return nil
		}

		s.AppendThinking(step, def.CompletedMessage)

		if step == StepDone {
			return c.complete(ctx, s)
		}
		step = next
	}
}

// HandleInput applies a user's form submission to the current
// interactive step and resumes the automated pipeline. Inline
// validation problems are returned wrapped in ErrInvalidInput and leave
// the flow waiting at the same step.
func (c *Coordinator) HandleInput(ctx context.Context, s *FlowState, input FormInput) error {
	if s.Status != StatusAwaitingInput {
		return fmt.Errorf("no input expected: flow is %s", s.Status)
	}
	if input.Form != FormFor(s.CurrentStep) {
		return fmt.Errorf("%w: form %q does not match step %q", ErrInvalidInput, input.Form, s.CurrentStep)
	}

	next, err := c.applyInput(ctx, s, input)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return err
		}
		return c.fail(ctx, s, err)
	}
	if next == s.CurrentStep {
		// Stayed interactive (e.g. switched to the create-project form).
		c.publishProgress(ctx, s)
		return nil
	}

	if def, ok := Definition(s.CurrentStep); ok {
		s.AppendThinking(s.CurrentStep, def.CompletedMessage)
	}
	if err := s.setStatus(StatusRunning); err != nil {
		return err
	}
	return c.run(ctx, s, next)
}

// applyInput mutates the parameter accumulator for the current step and
// returns the step to continue from.
func (c *Coordinator) applyInput(ctx context.Context, s *FlowState, input FormInput) (StepID, error) {
	switch s.CurrentStep {
	case StepSelectProject:
		if input.CreateNew {
			s.CurrentStep = StepCreateProject
			if def, ok := Definition(StepCreateProject); ok && !s.HasThinking(StepCreateProject) {
				s.AppendThinking(StepCreateProject, def.StartMessage)
			}
			return StepCreateProject, nil
		}
		if input.ProjectId == "" {
			return "", fmt.Errorf("%w: a project must be selected", ErrInvalidInput)
		}
		s.Params.ProjectId = input.ProjectId
		for _, p := range s.Projects {
			if p.Id == input.ProjectId {
				s.Params.ProjectName = p.Name
				s.Params.ProjectDesc = p.Desc
				s.Params.ProjectWebsite = p.Website
				s.Params.ProjectIcon = p.Icon
			}
		}
		return StepFetchCatalog, nil

	case StepCreateProject:
		if input.NewProject == nil {
			return "", fmt.Errorf("%w: project details are required", ErrInvalidInput)
		}
		if err := c.validate.Struct(input.NewProject); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		project, err := c.market.CreateProject(ctx, s.UserUUID, *input.NewProject)
		if err != nil {
			return "", newFlowError(KindCreateFailed, "could not create the project", err)
		}
		s.Params.ProjectId = project.Id
		s.Params.ProjectName = project.Name
		s.Params.ProjectDesc = project.Desc
		s.Params.ProjectWebsite = project.Website
		s.Params.ProjectIcon = project.Icon
		return StepFetchCatalog, nil

	case StepSelectTweetType:
		if s.Catalog == nil {
			return "", fmt.Errorf("%w: service catalog not loaded", ErrInvalidInput)
		}
		if _, ok := s.Catalog.TweetType(input.TweetTypeId); !ok {
			return "", fmt.Errorf("%w: unknown tweet type %d", ErrInvalidInput, input.TweetTypeId)
		}
		s.Params.TweetServiceTypeId = input.TweetTypeId
		return StepSelectAddOns, nil

	case StepSelectAddOns:
		for _, id := range input.AddOnIds {
			if _, ok := s.Catalog.Ext(id); !ok {
				return "", fmt.Errorf("%w: unknown add-on %d", ErrInvalidInput, id)
			}
		}
		s.Params.ExtServiceTypeIds = input.AddOnIds
		if s.requiresMedia() {
			return StepUploadMedia, nil
		}
		return StepMaterials, nil

	case StepUploadMedia:
		tweetType, _ := s.Catalog.TweetType(s.Params.TweetServiceTypeId)
		if len(input.MediaUrls) < tweetType.MediaMin || len(input.MediaUrls) > tweetType.MediaMax {
			return "", fmt.Errorf("%w: %s requires between %d and %d images, got %d",
				ErrInvalidInput, tweetType.Name, tweetType.MediaMin, tweetType.MediaMax, len(input.MediaUrls))
		}
		s.Params.Medias = input.MediaUrls
		return StepMaterials, nil

	case StepMaterials:
		materials := strings.TrimSpace(input.Materials)
		if materials == "" {
			return "", fmt.Errorf("%w: promotional materials cannot be empty", ErrInvalidInput)
		}
		s.Params.PromotionalMaterials = materials
		return StepSchedule, nil

	case StepSchedule:
		if input.StartAt == "" || input.EndAt == "" {
			return "", fmt.Errorf("%w: both start and end dates are required", ErrInvalidInput)
		}
		if err := validateDateRange(input.StartAt, input.EndAt); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		s.Params.PromotionalStartAt = input.StartAt
		s.Params.PromotionalEndAt = input.EndAt
		return StepCalcAmount, nil
	}

	return "", fmt.Errorf("%w: step %q accepts no input", ErrInvalidInput, s.CurrentStep)
}

// GoBack moves the cursor to the precomputed predecessor of the current
// interactive step. Collected parameters stay in place; only the
// thinking entries of the two steps involved are regenerated.
func (c *Coordinator) GoBack(ctx context.Context, s *FlowState) error {
	if s.Status != StatusAwaitingInput {
		return fmt.Errorf("cannot go back: flow is %s", s.Status)
	}
	pred, ok := Predecessor(s)
	if !ok {
		return fmt.Errorf("step %q has no predecessor", s.CurrentStep)
	}

	s.ClearThinking(s.CurrentStep, pred)

	if IsInteractive(pred) {
		s.CurrentStep = pred
		if def, ok := Definition(pred); ok {
			s.AppendThinking(pred, def.StartMessage)
		}
		c.publishProgress(ctx, s)
		return nil
	}

	if err := s.setStatus(StatusRunning); err != nil {
		return err
	}
	return c.run(ctx, s, pred)
}

// ForceFail routes a user-triggered cancellation through the normal
// failure path, producing a retryable artifact instead of leaving the
// flow in an ambiguous state.
func (c *Coordinator) ForceFail(ctx context.Context, s *FlowState, reason string) error {
	if s.Status == StatusIdle || s.Status.IsTerminal() || s.Status == StatusFailed {
		return nil
	}
	if reason == "" {
		reason = "Order paused by user."
	}
	return c.fail(ctx, s, newFlowError(KindUserCancelled, reason, nil))
}

// complete finalizes a paid flow: the confirmation snapshot is written
// into the originating progress artifact and the action is closed so it
// can never re-enter the automated pipeline.
func (c *Coordinator) complete(ctx context.Context, s *FlowState) error {
	confirmation := buildConfirmation(s)

	if s.ProgressMsgId != "" {
		if err := c.sink.UpdateContent(ctx, s.ProgressMsgId, confirmation); err != nil {
			c.log.Error("persist order confirmation", sl.Err(err),
				slog.String("action_id", s.ActionID))
		}
	}

	if err := s.setStatus(StatusCompleted); err != nil {
		return err
	}

	c.mu.Lock()
	c.closed[s.ActionID] = true
	c.mu.Unlock()

	c.log.Info("order flow completed",
		slog.String("action_id", s.ActionID),
		slog.String("order_no", confirmation.OrderNo),
		slog.String("amount", confirmation.Amount),
	)

	// The confirmation artifact holds everything worth keeping; the
	// accumulator and caches are for one attempt only.
	s.Params = OrderParams{}
	s.Catalog = nil
	s.Projects = nil
	s.Uploaded = nil
	return nil
}

func buildConfirmation(s *FlowState) *entity.OrderConfirmation {
	conf := &entity.OrderConfirmation{
		OrderNo:  s.OrderNo,
		Amount:   s.Params.Amount,
		TxHash:   s.TxHash,
		StartAt:  s.Params.PromotionalStartAt,
		EndAt:    s.Params.PromotionalEndAt,
		KolCount: len(s.Params.KolIds),
		PaidAt:   time.Now(),
	}
	if s.Catalog != nil {
		if t, ok := s.Catalog.TweetType(s.Params.TweetServiceTypeId); ok {
			conf.TweetTypeName = t.Name
		}
		for _, id := range s.Params.ExtServiceTypeIds {
			if ext, ok := s.Catalog.Ext(id); ok {
				conf.ExtNames = append(conf.ExtNames, ext.Name)
			}
		}
	}
	return conf
}

// publishProgress mirrors the current step and thinking log into the
// in-progress transcript artifact. Sink errors are logged, not fatal:
// the transcript is observability, not control flow.
func (c *Coordinator) publishProgress(ctx context.Context, s *FlowState) {
	if s.ProgressMsgId == "" {
		return
	}
	if err := c.sink.UpdateContent(ctx, s.ProgressMsgId, progressContent(s)); err != nil {
		c.log.Warn("update progress artifact", sl.Err(err),
			slog.String("action_id", s.ActionID))
	}
}

// ProgressContent is the transcript rendering of a live flow.
type ProgressContent struct {
	ActionID string          `json:"action_id"`
	Step     StepID          `json:"step"`
	Title    string          `json:"title"`
	Form     FormTag         `json:"form,omitempty"`
	Status   FlowStatus      `json:"status"`
	Thinking []ThinkingEntry `json:"thinking"`
	Amount   string          `json:"amount,omitempty"`
}

func progressContent(s *FlowState) *ProgressContent {
	title := ""
	if def, ok := Definition(s.CurrentStep); ok {
		title = def.Title
	}
	return &ProgressContent{
		ActionID: s.ActionID,
		Step:     s.CurrentStep,
		Title:    title,
		Form:     FormFor(s.CurrentStep),
		Status:   s.Status,
		Thinking: append([]ThinkingEntry(nil), s.Thinking...),
		Amount:   s.Params.Amount,
	}
}

func (c *Coordinator) isClosed(actionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed[actionID]
}

func validateDateRange(startAt, endAt string) error {
	start, err := time.Parse("2006-01-02", startAt)
	if err != nil {
		return fmt.Errorf("invalid start date %q", startAt)
	}
	end, err := time.Parse("2006-01-02", endAt)
	if err != nil {
		return fmt.Errorf("invalid end date %q", endAt)
	}
	if end.Before(start) {
		return fmt.Errorf("end date precedes start date")
	}
	return nil
}

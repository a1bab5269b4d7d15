package orderflow

import (
	"KolDesk/entity"
	"KolDesk/internal/lib/sl"
	"context"
	"log/slog"
	"time"
)

// RetryArtifact is the chat-visible failure artifact. For retryable
// failures it carries the execution snapshot needed to resume the flow
// exactly where it stopped.
type RetryArtifact struct {
	ActionID  string     `json:"action_id"`
	Step      StepID     `json:"step"`
	StepTitle string     `json:"step_title"`
	Kind      ErrorKind  `json:"kind"`
	Message   string     `json:"message"`
	Retryable bool       `json:"retryable"`
	Snapshot  *FlowState `json:"snapshot,omitempty"`
}

// fail converts a mid-flow failure into a transcript artifact. The
// in-progress artifact is detached, a single failure artifact is
// emitted, and the flow ends (resumption creates a logically new flow
// seeded from the snapshot). Duplicate failures for the same action,
// and failures on actions already closed, are no-ops.
func (c *Coordinator) fail(ctx context.Context, s *FlowState, err error) error {
	fe := asFlowError(err, KindFetchFailed)

	// A flow that already ended never emits a second artifact, however
	// late the callback arrives.
	if s.Status == StatusFailed || s.Status.IsTerminal() {
		return nil
	}

	c.mu.Lock()
	if c.failing[s.ActionID] || c.closed[s.ActionID] {
		c.mu.Unlock()
		return nil
	}
	c.failing[s.ActionID] = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.failing, s.ActionID)
		c.mu.Unlock()
	}()

	snap := s.Snapshot()

	if s.ProgressMsgId != "" {
		if derr := c.sink.UpdateContent(ctx, s.ProgressMsgId, nil); derr != nil {
			c.log.Warn("detach progress artifact", sl.Err(derr),
				slog.String("action_id", s.ActionID))
		}
	}

	artifact := &RetryArtifact{
		ActionID:  s.ActionID,
		Step:      s.CurrentStep,
		Kind:      fe.Kind,
		Message:   fe.Message,
		Retryable: fe.Retryable(),
	}
	if def, ok := Definition(s.CurrentStep); ok {
		artifact.StepTitle = def.Title
	}
	if artifact.Retryable {
		artifact.Snapshot = snap
	}

	kind := entity.KindRetryError
	switch fe.Kind {
	case KindSessionRequired:
		kind = entity.KindLoginError
	case KindNoMatchingTargets:
		kind = entity.KindError
	}

	if _, aerr := c.sink.Append(ctx, &entity.ChatMessage{
		ConversationId: s.ConversationId,
		UserUUID:       s.UserUUID,
		Role:           entity.RoleAssistant,
		Kind:           kind,
		Content:        artifact,
		CreatedAt:      time.Now(),
	}); aerr != nil {
		c.log.Error("emit failure artifact", sl.Err(aerr),
			slog.String("action_id", s.ActionID))
	}

	if serr := s.setStatus(StatusFailed); serr != nil {
		c.log.Error("mark flow failed", sl.Err(serr),
			slog.String("action_id", s.ActionID))
	}

	c.log.Warn("order flow failed",
		slog.String("action_id", s.ActionID),
		slog.String("step", string(s.CurrentStep)),
		slog.String("kind", string(fe.Kind)),
		sl.Err(fe),
	)
	return nil
}

// Resume rebuilds a flow from a captured snapshot. An interactive
// snapshot waits for input at its step; an automated one re-runs the
// step's action. If the snapshot itself is unusable, the flow restarts
// from the beginning rather than resuming from untrustworthy data.
func (c *Coordinator) Resume(ctx context.Context, snap *FlowState) (*FlowState, error) {
	// A snapshot of an action that has since completed must never
	// re-enter the pipeline, however it was obtained.
	if c.isClosed(snap.ActionID) {
		return nil, ErrFlowActive
	}
	if err := validateSnapshot(snap); err != nil {
		c.log.Warn("snapshot restore failed, restarting flow", sl.Err(err),
			slog.String("action_id", snap.ActionID))
		return c.restart(ctx, snap)
	}

	s := snap.Snapshot()
	s.Status = StatusFailed
	if err := s.setStatus(StatusRunning); err != nil {
		return nil, err
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
		return nil, newFlowError(KindRestoreFailed, "could not reopen the order conversation", err)
	}
	s.ProgressMsgId = id

	c.log.Info("order flow resumed",
		slog.String("action_id", s.ActionID),
		slog.String("step", string(s.CurrentStep)),
	)

	return s, c.run(ctx, s, s.CurrentStep)
}

// restart is the RestoreFailed fallback: a fresh flow over the same
// targets, from the first step.
func (c *Coordinator) restart(ctx context.Context, snap *FlowState) (*FlowState, error) {
	if len(snap.Params.KolIds) == 0 {
		return nil, newFlowError(KindRestoreFailed, "retry data is unusable and no targets remain", nil)
	}
	s := NewFlowState(snap.UserUUID, snap.ConversationId)
	return s, c.StartFlow(ctx, s, entity.KolSelection{KolIds: snap.Params.KolIds})
}

func validateSnapshot(snap *FlowState) error {
	if snap == nil {
		return newFlowError(KindRestoreFailed, "snapshot is missing", nil)
	}
	if snap.ActionID == "" || snap.UserUUID == "" {
		return newFlowError(KindRestoreFailed, "snapshot is missing identity", nil)
	}
	if _, ok := Definition(snap.CurrentStep); !ok {
		return newFlowError(KindRestoreFailed, "snapshot step is unknown", nil)
	}
	return nil
}

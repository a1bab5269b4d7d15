package orderflow

import (
	"KolDesk/entity"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartFlowNoMatchingTargets(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")

	err := env.coord.StartFlow(context.Background(), s, entity.KolSelection{
		Miss: []string{"ghost"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, s.Status)
	assert.Zero(t, env.market.createOrderCalls)
	assert.Zero(t, env.market.listCalls)

	msg := env.sink.lastOfKind(entity.KindError)
	require.NotNil(t, msg)
	artifact := msg.Content.(*RetryArtifact)
	assert.Equal(t, KindNoMatchingTargets, artifact.Kind)
	assert.False(t, artifact.Retryable)
	assert.Nil(t, artifact.Snapshot)
	assert.Contains(t, artifact.Message, "ghost")
}

func TestStartFlowPausesAtProjectSelection(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")

	require.NoError(t, env.startDefault(s))

	assert.Equal(t, StatusAwaitingInput, s.Status)
	assert.Equal(t, StepSelectProject, s.CurrentStep)
	assert.Equal(t, 1, env.market.listCalls)
	assert.True(t, s.HasThinking(StepVerifySession))
	assert.True(t, s.HasThinking(StepFetchProjects))
}

func TestStartFlowEmptyProjectsOffersCreate(t *testing.T) {
	env := newTestEnv()
	env.market.projects = nil
	s := NewFlowState("u1", "c1")

	require.NoError(t, env.startDefault(s))

	assert.Equal(t, StatusAwaitingInput, s.Status)
	assert.Equal(t, StepCreateProject, s.CurrentStep)
}

func TestStartFlowSecondCallRejected(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")

	require.NoError(t, env.startDefault(s))
	assert.ErrorIs(t, env.startDefault(s), ErrFlowActive)
	assert.Equal(t, 1, env.market.listCalls)
}

func TestStartFlowPartialMissAdvisory(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")

	err := env.coord.StartFlow(context.Background(), s, entity.KolSelection{
		Has:    []string{"alice"},
		Miss:   []string{"ghost"},
		KolIds: []entity.KolTarget{{Id: 1, Price: 50}},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusAwaitingInput, s.Status)
	assert.True(t, s.HasThinking(StepAdvisory))
}

func TestSessionRequiredOffersLogin(t *testing.T) {
	env := newTestEnv()
	env.session.loggedIn = false
	s := NewFlowState("u1", "c1")

	require.NoError(t, env.startDefault(s))

	assert.Equal(t, StatusFailed, s.Status)
	msg := env.sink.lastOfKind(entity.KindLoginError)
	require.NotNil(t, msg)
	artifact := msg.Content.(*RetryArtifact)
	assert.Equal(t, KindSessionRequired, artifact.Kind)
	assert.False(t, artifact.Retryable)
}

// driveToSchedule walks a flow through every interactive step up to and
// including the schedule submission, which hands off to the automated
// payment pipeline.
func driveToSchedule(t *testing.T, env *testEnv, s *FlowState, tweetTypeId int64, addOns []int64, media []string) error {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, env.startDefault(s))
	require.Equal(t, StepSelectProject, s.CurrentStep)

	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectProject, ProjectId: "p1"}))
	require.Equal(t, StepSelectTweetType, s.CurrentStep)

	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectTweetType, TweetTypeId: tweetTypeId}))
	require.Equal(t, StepSelectAddOns, s.CurrentStep)

	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectAddOns, AddOnIds: addOns}))

	if media != nil {
		require.Equal(t, StepUploadMedia, s.CurrentStep)
		require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormUploadMedia, MediaUrls: media}))
	}
	require.Equal(t, StepMaterials, s.CurrentStep)

	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormMaterials, Materials: "Launch our token"}))
	require.Equal(t, StepSchedule, s.CurrentStep)

	return env.coord.HandleInput(ctx, s, FormInput{Form: FormSchedule, StartAt: "2026-09-01", EndAt: "2026-09-10"})
}

func TestHappyPathSingleTarget(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")

	require.NoError(t, driveToSchedule(t, env, s, 1, nil, nil))

	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, 1, env.market.createOrderCalls)
	assert.Equal(t, "50.00", env.market.lastDraft.Amount)
	assert.Equal(t, 1, env.market.payCalls)
	assert.Equal(t, 1, env.chain.issueCalls)
	assert.Zero(t, env.chain.approveCalls, "sufficient allowance must skip approval")

	conf, ok := env.sink.contents[s.ProgressMsgId].(*entity.OrderConfirmation)
	require.True(t, ok, "progress artifact must hold the confirmation")
	assert.Equal(t, "ON-1", conf.OrderNo)
	assert.Equal(t, "0xissue", conf.TxHash)
}

func TestInsufficientBalanceStopsBeforeAllowance(t *testing.T) {
	env := newTestEnv()
	env.chain.balance = 10
	s := NewFlowState("u1", "c1")

	require.NoError(t, driveToSchedule(t, env, s, 1, nil, nil))

	assert.Equal(t, StatusFailed, s.Status)
	assert.Zero(t, env.chain.allowanceCalls)
	assert.Zero(t, env.chain.approveCalls)
	assert.Zero(t, env.market.payCalls)

	msg := env.sink.lastOfKind(entity.KindRetryError)
	require.NotNil(t, msg)
	assert.Equal(t, KindInsufficientBalance, msg.Content.(*RetryArtifact).Kind)
}

func TestInsufficientAllowanceTakesApprovalPath(t *testing.T) {
	env := newTestEnv()
	env.chain.allowance = 0
	s := NewFlowState("u1", "c1")

	require.NoError(t, driveToSchedule(t, env, s, 1, nil, nil))

	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, 1, env.chain.approveCalls)
	assert.Equal(t, 1, env.chain.issueCalls)
	assert.True(t, s.NeedsApproval)
}

func TestWrongNetworkFails(t *testing.T) {
	env := newTestEnv()
	env.chain.chainId = 1
	s := NewFlowState("u1", "c1")

	require.NoError(t, driveToSchedule(t, env, s, 1, nil, nil))

	assert.Equal(t, StatusFailed, s.Status)
	assert.True(t, s.WrongChain)
	assert.Zero(t, env.chain.balanceCalls)
}

func TestAmountWithRateAndAddOn(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")
	// Image tweet (rate 120) with the pinned add-on (rate 10) over a
	// single 100-priced target: 100 -> 120 -> 130.
	require.NoError(t, env.coord.StartFlow(context.Background(), s, entity.KolSelection{
		KolIds: []entity.KolTarget{{Id: 1, Price: 100}},
	}))
	ctx := context.Background()
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectProject, ProjectId: "p1"}))
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectTweetType, TweetTypeId: 2}))
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectAddOns, AddOnIds: []int64{10}}))
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormUploadMedia, MediaUrls: []string{"https://cdn/img1.png"}}))
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormMaterials, Materials: "art"}))
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSchedule, StartAt: "2026-09-01", EndAt: "2026-09-02"}))

	assert.Equal(t, "130.00", env.market.lastDraft.Amount)
	assert.Equal(t, StatusCompleted, s.Status)
}

func TestMediaCountValidatedInline(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")
	ctx := context.Background()

	require.NoError(t, env.startDefault(s))
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectProject, ProjectId: "p1"}))
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectTweetType, TweetTypeId: 2}))
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectAddOns}))
	require.Equal(t, StepUploadMedia, s.CurrentStep)

	err := env.coord.HandleInput(ctx, s, FormInput{Form: FormUploadMedia})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, StepUploadMedia, s.CurrentStep, "inline error must not transition")
	assert.Equal(t, StatusAwaitingInput, s.Status)
}

func TestThinkingLogDeduplicated(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")
	ctx := context.Background()

	require.NoError(t, env.startDefault(s))
	require.Equal(t, StepSelectProject, s.CurrentStep)

	// Re-enter the same step, as a UI re-render would.
	require.NoError(t, env.coord.run(ctx, s, StepSelectProject))

	count := 0
	for _, e := range s.Thinking {
		if e.Step == StepSelectProject {
			count += len(e.Messages)
		}
	}
	assert.Equal(t, 1, count, "start message must be appended at most once")
}

func TestPaymentSubmittedOnce(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")
	s.Status = StatusRunning
	s.OrderNo = "ON-7"
	s.TxHash = "0xdead"
	s.Params.Amount = "50.00"
	ctx := context.Background()

	next, err := env.coord.executePay(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, StepDone, next)
	assert.Equal(t, PaymentCompleted, s.Payment)

	next, err = env.coord.executePay(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, StepDone, next)
	assert.Equal(t, 1, env.market.payCalls, "payment gateway must be called exactly once")
}

func TestConcurrentPaymentAbstains(t *testing.T) {
	env := newTestEnv()
	other := NewFlowState("u2", "c2")
	other.Payment = PaymentProcessing
	env.coord.mu.Lock()
	env.coord.paying = other.ActionID
	env.coord.mu.Unlock()

	s := NewFlowState("u1", "c1")
	s.OrderNo = "ON-8"
	s.TxHash = "0xbeef"
	s.Params.Amount = "50.00"

	_, err := env.coord.executePay(context.Background(), s)
	require.Error(t, err)
	assert.Equal(t, KindPaymentFailed, asFlowError(err, "").Kind)
	assert.Zero(t, env.market.payCalls)
}

func TestGoBackPredecessors(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")
	ctx := context.Background()

	require.NoError(t, env.startDefault(s))
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectProject, ProjectId: "p1"}))
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectTweetType, TweetTypeId: 1}))
	require.Equal(t, StepSelectAddOns, s.CurrentStep)

	require.NoError(t, env.coord.GoBack(ctx, s))
	assert.Equal(t, StepSelectTweetType, s.CurrentStep)
	assert.Equal(t, StatusAwaitingInput, s.Status)

	// Collected parameters stay editable after going back.
	assert.Equal(t, "p1", s.Params.ProjectId)
	assert.EqualValues(t, 1, s.Params.TweetServiceTypeId)
}

func TestGoBackFromMaterialsDependsOnMedia(t *testing.T) {
	tests := []struct {
		name        string
		tweetTypeId int64
		media       []string
		want        StepID
	}{
		{"media required", 2, []string{"https://cdn/img1.png"}, StepUploadMedia},
		{"no media", 1, nil, StepSelectAddOns},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			s := NewFlowState("u1", "c1")
			ctx := context.Background()

			require.NoError(t, env.startDefault(s))
			require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectProject, ProjectId: "p1"}))
			require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectTweetType, TweetTypeId: tt.tweetTypeId}))
			require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectAddOns}))
			if tt.media != nil {
				require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormUploadMedia, MediaUrls: tt.media}))
			}
			require.Equal(t, StepMaterials, s.CurrentStep)

			require.NoError(t, env.coord.GoBack(ctx, s))
			assert.Equal(t, tt.want, s.CurrentStep)
		})
	}
}

func TestGoBackRegeneratesThinking(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")
	ctx := context.Background()

	require.NoError(t, env.startDefault(s))
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectProject, ProjectId: "p1"}))
	require.NoError(t, env.coord.HandleInput(ctx, s, FormInput{Form: FormSelectTweetType, TweetTypeId: 1}))

	require.NoError(t, env.coord.GoBack(ctx, s))

	var addOnMessages int
	for _, e := range s.Thinking {
		if e.Step == StepSelectAddOns {
			addOnMessages += len(e.Messages)
		}
	}
	assert.Zero(t, addOnMessages, "go-back must clear the abandoned step's log")
	assert.True(t, s.HasThinking(StepSelectTweetType), "target step log must be regenerated")
}

func TestForceFailProducesRetryableArtifact(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")

	require.NoError(t, env.startDefault(s))
	require.NoError(t, env.coord.ForceFail(context.Background(), s, ""))

	assert.Equal(t, StatusFailed, s.Status)
	msg := env.sink.lastOfKind(entity.KindRetryError)
	require.NotNil(t, msg)
	artifact := msg.Content.(*RetryArtifact)
	assert.Equal(t, KindUserCancelled, artifact.Kind)
	assert.True(t, artifact.Retryable)
	require.NotNil(t, artifact.Snapshot)
	assert.Equal(t, s.ActionID, artifact.Snapshot.ActionID)
}

func TestCompletedFlowNeverRestarts(t *testing.T) {
	env := newTestEnv()
	s := NewFlowState("u1", "c1")

	require.NoError(t, driveToSchedule(t, env, s, 1, nil, nil))
	require.Equal(t, StatusCompleted, s.Status)

	fresh := NewFlowState("u1", "c1")
	fresh.ActionID = s.ActionID
	assert.ErrorIs(t, env.startDefault(fresh), ErrFlowActive)
}

func TestCreateProjectViaForm(t *testing.T) {
	env := newTestEnv()
	env.market.projects = nil
	s := NewFlowState("u1", "c1")
	ctx := context.Background()

	require.NoError(t, env.startDefault(s))
	require.Equal(t, StepCreateProject, s.CurrentStep)

	err := env.coord.HandleInput(ctx, s, FormInput{
		Form: FormCreateProject,
		NewProject: &entity.ProjectDraft{
			Name:    "NewCoin",
			Desc:    "A new coin",
			Website: "https://newcoin.io",
			Icon:    "https://newcoin.io/icon.png",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, env.market.createProjCalls)
	assert.Equal(t, "p-new", s.Params.ProjectId)
	assert.Equal(t, StepSelectTweetType, s.CurrentStep)
}

package core

import (
	"KolDesk/entity"
	"KolDesk/orderflow"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	users         map[string]*entity.User
	messages      map[string]entity.ChatMessage
	kinds         map[string]string
	confirmations map[string][]entity.OrderConfirmation
	walletCalls   int
	upsertCalls   int
	nextId        int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:         make(map[string]*entity.User),
		messages:      make(map[string]entity.ChatMessage),
		kinds:         make(map[string]string),
		confirmations: make(map[string][]entity.OrderConfirmation),
	}
}

func (f *fakeRepo) CheckApiKey(key string) (string, error)         { return "", nil }
func (f *fakeRepo) GenerateApiKey(username string) (string, error) { return "", nil }

func (f *fakeRepo) AppendMessage(ctx context.Context, msg *entity.ChatMessage) (string, error) {
	f.nextId++
	msg.Id = fmt.Sprintf("m%d", f.nextId)
	f.messages[msg.Id] = *msg
	return msg.Id, nil
}

func (f *fakeRepo) UpdateMessageContent(ctx context.Context, id string, content any) error {
	msg := f.messages[id]
	msg.Content = content
	f.messages[id] = msg
	return nil
}

func (f *fakeRepo) SetMessageKind(ctx context.Context, id, kind string) error {
	f.kinds[id] = kind
	return nil
}

func (f *fakeRepo) DeleteMessage(ctx context.Context, id string) error {
	delete(f.messages, id)
	return nil
}

func (f *fakeRepo) GetConversation(ctx context.Context, conversationId string, limit int64) ([]entity.ChatMessage, error) {
	return nil, nil
}

func (f *fakeRepo) GetUser(ctx context.Context, userUUID string) (*entity.User, error) {
	return f.users[userUUID], nil
}

func (f *fakeRepo) UpsertUser(ctx context.Context, user *entity.User) error {
	f.upsertCalls++
	f.users[user.UUID] = user
	return nil
}

func (f *fakeRepo) SetUserWallet(ctx context.Context, userUUID, wallet string) error {
	f.walletCalls++
	if user, ok := f.users[userUUID]; ok {
		user.Wallet = wallet
	}
	return nil
}

func (f *fakeRepo) SaveFlowState(ctx context.Context, state *orderflow.FlowState) error { return nil }
func (f *fakeRepo) LoadFlowState(ctx context.Context, conversationId string) (*orderflow.FlowState, error) {
	return nil, nil
}
func (f *fakeRepo) DeleteFlowState(ctx context.Context, conversationId string) error { return nil }

func (f *fakeRepo) SaveConfirmation(ctx context.Context, userUUID string, conf *entity.OrderConfirmation) error {
	f.confirmations[userUUID] = append(f.confirmations[userUUID], *conf)
	return nil
}

func (f *fakeRepo) GetConfirmations(ctx context.Context, userUUID string) ([]entity.OrderConfirmation, error) {
	return f.confirmations[userUUID], nil
}

type fakeBroadcaster struct {
	appended []entity.ChatMessage
	updated  []string
	deleted  []string
}

func (f *fakeBroadcaster) BroadcastAppended(msg entity.ChatMessage) {
	f.appended = append(f.appended, msg)
}

func (f *fakeBroadcaster) BroadcastUpdated(conversationId, messageId string, content any) {
	f.updated = append(f.updated, messageId)
}

func (f *fakeBroadcaster) BroadcastDeleted(conversationId, messageId string) {
	f.deleted = append(f.deleted, messageId)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBindWalletCreatesMissingUser(t *testing.T) {
	repo := newFakeRepo()
	c := New(discardLogger())
	c.SetRepository(repo)

	require.NoError(t, c.BindWallet(context.Background(), "u1", "0xabc"))

	user := repo.users["u1"]
	require.NotNil(t, user)
	assert.Equal(t, "0xabc", user.Wallet)
	assert.Equal(t, 1, repo.upsertCalls)
	assert.Zero(t, repo.walletCalls)
}

func TestBindWalletUpdatesExistingUser(t *testing.T) {
	repo := newFakeRepo()
	repo.users["u1"] = &entity.User{UUID: "u1", Name: "Alice"}
	c := New(discardLogger())
	c.SetRepository(repo)

	require.NoError(t, c.BindWallet(context.Background(), "u1", " 0xabc "))

	assert.Equal(t, "0xabc", repo.users["u1"].Wallet)
	assert.Equal(t, "Alice", repo.users["u1"].Name, "rebinding must not clobber the profile")
	assert.Equal(t, 1, repo.walletCalls)
	assert.Zero(t, repo.upsertCalls)
}

func TestBindWalletRejectsEmptyInput(t *testing.T) {
	repo := newFakeRepo()
	c := New(discardLogger())
	c.SetRepository(repo)

	assert.Error(t, c.BindWallet(context.Background(), "", "0xabc"))
	assert.Error(t, c.BindWallet(context.Background(), "u1", "  "))
	assert.Zero(t, repo.upsertCalls)
	assert.Zero(t, repo.walletCalls)
}

func TestConfirmationLandsInOrdersAndReclassifies(t *testing.T) {
	repo := newFakeRepo()
	bc := &fakeBroadcaster{}
	sink := newTranscriptSink(repo, bc, discardLogger())
	ctx := context.Background()

	id, err := sink.Append(ctx, &entity.ChatMessage{
		ConversationId: "c1",
		UserUUID:       "u1",
		Role:           entity.RoleAssistant,
		Kind:           entity.KindProgress,
	})
	require.NoError(t, err)

	conf := &entity.OrderConfirmation{OrderNo: "ON-1", Amount: "50.00", TxHash: "0xissue"}
	require.NoError(t, sink.UpdateContent(ctx, id, conf))

	require.Len(t, repo.confirmations["u1"], 1)
	assert.Equal(t, "ON-1", repo.confirmations["u1"][0].OrderNo)
	assert.Equal(t, entity.KindConfirmation, repo.kinds[id])
	assert.Equal(t, conf, repo.messages[id].Content)
	assert.Equal(t, []string{id}, bc.updated)
}

func TestProgressUpdateKeepsKind(t *testing.T) {
	repo := newFakeRepo()
	sink := newTranscriptSink(repo, &fakeBroadcaster{}, discardLogger())
	ctx := context.Background()

	id, err := sink.Append(ctx, &entity.ChatMessage{
		ConversationId: "c1",
		UserUUID:       "u1",
		Kind:           entity.KindProgress,
	})
	require.NoError(t, err)

	require.NoError(t, sink.UpdateContent(ctx, id, map[string]string{"step": "pay"}))

	_, reclassified := repo.kinds[id]
	assert.False(t, reclassified, "ordinary progress updates keep their kind")
	assert.Empty(t, repo.confirmations["u1"])
}

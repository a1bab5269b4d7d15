package core

import (
	"KolDesk/entity"
	"KolDesk/internal/lib/sl"
	"KolDesk/orderflow"
	"context"
	"io"
	"log/slog"
)

type Repository interface {
	CheckApiKey(key string) (string, error)
	GenerateApiKey(username string) (string, error)

	AppendMessage(ctx context.Context, msg *entity.ChatMessage) (string, error)
	UpdateMessageContent(ctx context.Context, id string, content any) error
	SetMessageKind(ctx context.Context, id, kind string) error
	DeleteMessage(ctx context.Context, id string) error
	GetConversation(ctx context.Context, conversationId string, limit int64) ([]entity.ChatMessage, error)

	GetUser(ctx context.Context, userUUID string) (*entity.User, error)
	UpsertUser(ctx context.Context, user *entity.User) error
	SetUserWallet(ctx context.Context, userUUID, wallet string) error

	SaveFlowState(ctx context.Context, state *orderflow.FlowState) error
	LoadFlowState(ctx context.Context, conversationId string) (*orderflow.FlowState, error)
	DeleteFlowState(ctx context.Context, conversationId string) error

	SaveConfirmation(ctx context.Context, userUUID string, conf *entity.OrderConfirmation) error
	GetConfirmations(ctx context.Context, userUUID string) ([]entity.OrderConfirmation, error)
}

type MarketService interface {
	orderflow.MarketGateway

	ListKols(ctx context.Context) ([]entity.Kol, error)
	UploadImage(ctx context.Context, filename string, size int64, file io.Reader) (*entity.Media, error)
}

type ChainService interface {
	orderflow.ChainGateway
}

type AuthService interface {
	orderflow.SessionGateway
}

type Assistant interface {
	Ask(user *entity.User, userMsg string) (*entity.AssistantAnswer, error)
}

// Broadcaster pushes transcript changes to connected web clients.
type Broadcaster interface {
	BroadcastAppended(msg entity.ChatMessage)
	BroadcastUpdated(conversationId, messageId string, content any)
	BroadcastDeleted(conversationId, messageId string)
}

type Core struct {
	repo          Repository
	market        MarketService
	chain         ChainService
	authService   AuthService
	ass           Assistant
	bc            Broadcaster
	flow          *orderflow.Coordinator
	sink          *transcriptSink
	authKey       string
	keys          map[string]string
	requiredChain int64
	spender       string
	log           *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log:  log.With(sl.Module("core")),
		keys: make(map[string]string),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

func (c *Core) SetMarketService(market MarketService) {
	c.market = market
}

func (c *Core) SetChainService(chain ChainService) {
	c.chain = chain
}

func (c *Core) SetAuthService(auth AuthService) {
	c.authService = auth
}

func (c *Core) SetAssistant(ass Assistant) {
	c.ass = ass
}

func (c *Core) SetBroadcaster(bc Broadcaster) {
	c.bc = bc
}

// SetChainParams fixes the network the wallet must be on and the
// contract allowed to draw the payment.
func (c *Core) SetChainParams(requiredChain int64, spender string) {
	c.requiredChain = requiredChain
	c.spender = spender
}

// Init wires the flow coordinator once all services are injected.
func (c *Core) Init() {
	c.sink = newTranscriptSink(c.repo, c.bc, c.log)
	c.flow = orderflow.NewCoordinator(c.market, c.chain, c.authService, c.sink,
		c.requiredChain, c.spender, c.log)
}

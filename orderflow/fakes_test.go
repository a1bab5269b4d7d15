package orderflow

import (
	"KolDesk/entity"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

type fakeMarket struct {
	projects []entity.Project
	catalog  *entity.ServiceCatalog

	listErr        error
	createProjErr  error
	createOrderErr error
	payErr         error

	listCalls        int
	createProjCalls  int
	catalogCalls     int
	createOrderCalls int
	payCalls         int

	lastDraft entity.OrderDraft
}

func (m *fakeMarket) ListProjects(ctx context.Context, userUUID string) ([]entity.Project, error) {
	m.listCalls++
	return m.projects, m.listErr
}

func (m *fakeMarket) CreateProject(ctx context.Context, userUUID string, draft entity.ProjectDraft) (*entity.Project, error) {
	m.createProjCalls++
	if m.createProjErr != nil {
		return nil, m.createProjErr
	}
	return &entity.Project{Id: "p-new", Name: draft.Name, Desc: draft.Desc, Website: draft.Website, Icon: draft.Icon}, nil
}

func (m *fakeMarket) FetchServiceCatalog(ctx context.Context) (*entity.ServiceCatalog, error) {
	m.catalogCalls++
	return m.catalog, nil
}

func (m *fakeMarket) CreateOrder(ctx context.Context, userUUID string, draft entity.OrderDraft) (*entity.Order, error) {
	m.createOrderCalls++
	if m.createOrderErr != nil {
		return nil, m.createOrderErr
	}
	m.lastDraft = draft
	return &entity.Order{OrderNo: "ON-1", OrderId: "OID-1"}, nil
}

func (m *fakeMarket) PayOrder(ctx context.Context, orderNo, txHash string) error {
	m.payCalls++
	return m.payErr
}

type fakeChain struct {
	chainId   int64
	balance   float64
	allowance float64

	issueErr   error
	approveErr error
	receiptErr error

	chainCalls     int
	balanceCalls   int
	allowanceCalls int
	approveCalls   int
	issueCalls     int
}

func (c *fakeChain) ActiveChain(ctx context.Context, wallet string) (int64, error) {
	c.chainCalls++
	return c.chainId, nil
}

func (c *fakeChain) Balance(ctx context.Context, wallet string) (float64, error) {
	c.balanceCalls++
	return c.balance, nil
}

func (c *fakeChain) Allowance(ctx context.Context, wallet, spender string) (float64, error) {
	c.allowanceCalls++
	return c.allowance, nil
}

func (c *fakeChain) Approve(ctx context.Context, wallet, spender string, amount float64) (string, error) {
	c.approveCalls++
	if c.approveErr != nil {
		return "", c.approveErr
	}
	return "0xapprove", nil
}

func (c *fakeChain) Issue(ctx context.Context, wallet string, amount float64, orderNo string) (string, error) {
	c.issueCalls++
	if c.issueErr != nil {
		return "", c.issueErr
	}
	return "0xissue", nil
}

func (c *fakeChain) WaitForReceipt(ctx context.Context, txHash string) error {
	return c.receiptErr
}

type fakeSession struct {
	loggedIn bool
	wallet   string
	err      error
}

func (s *fakeSession) Verify(ctx context.Context, userUUID string) (*entity.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Session{UserUUID: userUUID, LoggedIn: s.loggedIn, Wallet: s.wallet}, nil
}

type fakeSink struct {
	mu       sync.Mutex
	seq      int
	appended []*entity.ChatMessage
	contents map[string]any
}

func newFakeSink() *fakeSink {
	return &fakeSink{contents: make(map[string]any)}
}

func (f *fakeSink) Append(ctx context.Context, msg *entity.ChatMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("m%d", f.seq)
	msg.Id = id
	f.appended = append(f.appended, msg)
	f.contents[id] = msg.Content
	return id, nil
}

func (f *fakeSink) UpdateContent(ctx context.Context, id string, content any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contents[id] = content
	return nil
}

func (f *fakeSink) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.contents, id)
	return nil
}

func (f *fakeSink) lastOfKind(kind string) *entity.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.appended) - 1; i >= 0; i-- {
		if f.appended[i].Kind == kind {
			return f.appended[i]
		}
	}
	return nil
}

func testCatalog() *entity.ServiceCatalog {
	return &entity.ServiceCatalog{
		TweetTypes: []entity.TweetServiceType{
			{Id: 1, Name: "Tweet", PriceRate: 100},
			{Id: 2, Name: "Image Tweet", Require: entity.RequireImage, PriceRate: 120, MediaMin: 1, MediaMax: 4},
		},
		Exts: []entity.TweetServiceType{
			{Id: 10, Name: "Pinned", PriceRate: 10},
			{Id: 11, Name: "Retweet", PriceRate: 5},
		},
	}
}

type testEnv struct {
	market  *fakeMarket
	chain   *fakeChain
	session *fakeSession
	sink    *fakeSink
	coord   *Coordinator
}

func newTestEnv() *testEnv {
	market := &fakeMarket{
		projects: []entity.Project{{Id: "p1", Name: "Demo", Website: "https://demo.io", Icon: "https://demo.io/i.png"}},
		catalog:  testCatalog(),
	}
	chain := &fakeChain{chainId: 56, balance: 1000, allowance: 1000}
	session := &fakeSession{loggedIn: true, wallet: "0xwallet"}
	sink := newFakeSink()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	coord := NewCoordinator(market, chain, session, sink, 56, "0xspender", log)
	return &testEnv{market: market, chain: chain, session: session, sink: sink, coord: coord}
}

func (e *testEnv) startDefault(s *FlowState) error {
	return e.coord.StartFlow(context.Background(), s, entity.KolSelection{
		Has:    []string{"alice"},
		KolIds: []entity.KolTarget{{Id: 1, Price: 50}},
	})
}

package assistant

import (
	"KolDesk/entity"
	"KolDesk/internal/config"
	"KolDesk/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
)

// MarketService is the slice of the marketplace client the assistant
// needs to resolve influencer names.
type MarketService interface {
	ListKols(ctx context.Context) ([]entity.Kol, error)
}

// Assistant wraps the OpenAI assistant that reads free-form chat and
// turns it into structured promotion requests.
type Assistant struct {
	client        *openai.Client
	assistantID   string
	devPrefix     string
	threads       map[string]string
	marketService MarketService
	locker        *LockThreads
	log           *slog.Logger
}

type LockThreads struct {
	mutex   sync.Mutex
	threads map[string]*sync.Mutex
}

func NewAssistant(conf *config.Config, logger *slog.Logger) *Assistant {
	client := openai.NewClient(conf.OpenAI.ApiKey)
	return &Assistant{
		client:      client,
		assistantID: conf.OpenAI.AssistantID,
		devPrefix:   conf.OpenAI.DevPrefix,
		threads:     make(map[string]string),
		locker:      &LockThreads{threads: make(map[string]*sync.Mutex)},
		log:         logger.With(sl.Module("assistant")),
	}
}

func (a *Assistant) SetMarketService(marketService MarketService) {
	a.marketService = marketService
}

func (l *LockThreads) Lock(userId string) {
	l.mutex.Lock()

	mutex, exists := l.threads[userId]
	if !exists {
		mutex = &sync.Mutex{}
		l.threads[userId] = mutex
	}

	l.mutex.Unlock()

	mutex.Lock()
}

func (l *LockThreads) Unlock(userId string) {
	l.mutex.Lock()

	mutex, exists := l.threads[userId]
	if !exists {
		l.mutex.Unlock()
		return
	}
	l.mutex.Unlock()

	mutex.Unlock()
}

func (a *Assistant) handleRun(userUUID, threadID string) bool {
	maxRetries := 3
	completed := false
	ctx := context.Background()

	for attempt := 0; attempt < maxRetries; attempt++ {
		run, err := a.client.CreateRun(ctx, threadID, openai.RunRequest{
			AssistantID: a.assistantID,
		})
		if err != nil {
			a.log.Error(fmt.Sprintf("error creating run: %v", err))
			continue
		}

		nextPoll := false
		for {
			time.Sleep(1 * time.Second)
			run, err = a.client.RetrieveRun(ctx, threadID, run.ID)
			if err != nil {
				a.log.Error(fmt.Sprintf("error retrieving run: %v", err))
				break
			}

			switch run.Status {
			case openai.RunStatusCompleted:
				completed = true
				nextPoll = true
			case openai.RunStatusFailed, openai.RunStatusCancelled, openai.RunStatusExpired, openai.RunStatusIncomplete:
				errorMsg := ""
				if run.LastError != nil {
					errorMsg = run.LastError.Message
				}
				a.log.With(
					slog.String("userUUID", userUUID),
					slog.String("status", string(run.Status)),
					slog.Any("error", errorMsg),
				).Error("run failed")
				nextPoll = true
			default:
				// still running, continue polling
			}

			if nextPoll {
				break
			}
		}

		if completed {
			break
		}

		time.Sleep(2 * time.Second)
	}

	return completed
}

func (a *Assistant) getOrCreateThread(userId string) (openai.Thread, error) {
	a.locker.Lock(userId)

	if threadId, ok := a.threads[userId]; ok && threadId != "" {
		thread, err := a.client.RetrieveThread(context.Background(), threadId)
		if err == nil {
			return thread, nil
		}
		a.log.With(slog.String("thread", threadId)).Error("retrieving thread", sl.Err(err))
	}

	thread, err := a.client.CreateThread(context.Background(), openai.ThreadRequest{})
	if err != nil {
		return openai.Thread{}, err
	}

	a.threads[userId] = thread.ID
	a.log.With(slog.String("thread", thread.ID)).Info("created new thread")

	return thread, nil
}

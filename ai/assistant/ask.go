package assistant

import (
	"KolDesk/entity"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Reply is the assistant's structured answer to a chat message.
type Reply struct {
	Response   string   `json:"response"`
	KolNames   []string `json:"kol_names"`
	StartOrder bool     `json:"start_order"`
}

var citationRe = regexp.MustCompile(`【\d+:\d+†[^】]+】`)

// Ask sends the user message through the assistant thread and resolves
// any named influencers against the marketplace listing.
func (a *Assistant) Ask(user *entity.User, userMsg string) (*entity.AssistantAnswer, error) {
	defer a.locker.Unlock(user.UUID)
	thread, err := a.getOrCreateThread(user.UUID)
	if err != nil {
		return nil, err
	}

	if a.devPrefix != "" {
		userMsg = a.devPrefix + " " + userMsg
	}

	_, err = a.client.CreateMessage(context.Background(), thread.ID, openai.MessageRequest{
		Role:    string(openai.ThreadMessageRoleUser),
		Content: userMsg,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating message: %v", err)
	}

	completed := a.handleRun(user.UUID, thread.ID)
	if !completed {
		return nil, fmt.Errorf("max retries reached, unable to complete run")
	}

	msgs, err := a.client.ListMessage(context.Background(), thread.ID, nil, nil, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %v", err)
	}

	if len(msgs.Messages) == 0 {
		return nil, fmt.Errorf("no messages found")
	}

	responseText := citationRe.ReplaceAllString(msgs.Messages[0].Content[0].Text.Value, "")

	var reply Reply
	if err := json.Unmarshal([]byte(responseText), &reply); err != nil {
		a.log.With(
			slog.String("userUUID", user.UUID),
			slog.String("response", responseText),
		).Debug("plain text reply")
		return &entity.AssistantAnswer{Text: responseText}, nil
	}

	answer := &entity.AssistantAnswer{
		Text:       reply.Response,
		StartOrder: reply.StartOrder,
	}

	if reply.StartOrder {
		selection, err := a.resolveKols(reply.KolNames)
		if err != nil {
			a.log.With(
				slog.String("userUUID", user.UUID),
			).Error("resolving influencers", slog.Any("names", reply.KolNames))
			return nil, err
		}
		answer.Selection = selection
	}

	return answer, nil
}

// resolveKols splits requested influencer names into those listed on
// the marketplace and those it does not carry.
func (a *Assistant) resolveKols(names []string) (*entity.KolSelection, error) {
	selection := &entity.KolSelection{}
	if len(names) == 0 {
		return selection, nil
	}

	kols, err := a.marketService.ListKols(context.Background())
	if err != nil {
		return nil, err
	}

	byName := make(map[string]entity.Kol, len(kols))
	for _, kol := range kols {
		byName[strings.ToLower(kol.Name)] = kol
		byName[strings.ToLower(kol.Handle)] = kol
	}

	for _, name := range names {
		kol, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			selection.Miss = append(selection.Miss, name)
			continue
		}
		selection.Has = append(selection.Has, kol.Name)
		selection.KolIds = append(selection.KolIds, entity.KolTarget{Id: kol.Id, Price: kol.Price})
	}

	return selection, nil
}

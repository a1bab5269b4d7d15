package entity

// AssistantAnswer is the assistant's processed reply to a chat message.
// When the user asked to start a promotion, StartOrder is set and
// Selection carries the resolved influencer targets.
type AssistantAnswer struct {
	Text       string        `json:"text"`
	StartOrder bool          `json:"start_order"`
	Selection  *KolSelection `json:"selection,omitempty"`
}

package domain

// Conversation an append-only list of messages in conversation order.
type Conversation struct {
	messages []Message
}

func NewConversation() *Conversation {
	return &Conversation{}
}

func (c *Conversation) Append(message Message) {
	c.messages = append(c.messages, message)
}

// Messages returns a copy, so callers can't reorder or replace entries.
func (c *Conversation) Messages() []Message {
	result := make([]Message, len(c.messages))
	copy(result, c.messages)
	return result
}

func (c *Conversation) Clear() {
	c.messages = nil
}

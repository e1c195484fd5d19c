package types

// Message is a single conversational turn in the format shared by the
// session store and the LLM chat endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Question  string `json:"question" form:"question"`
	SessionID string `json:"session_id" form:"session_id"`
}

// ChatReply is the body of a successful POST /chat response.
type ChatReply struct {
	Response         string `json:"response"`
	OriginalQuestion string `json:"original_question"`
	ExpandedQuestion string `json:"expanded_question"`
	ResponseHTML     string `json:"response_html,omitempty"`
}

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
	Reason   string `json:"reason"`
}

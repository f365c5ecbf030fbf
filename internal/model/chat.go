package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn inside a thread. VideoTimestamp holds an
// optional "MM:SS" or "H:MM:SS" annotation entered alongside the text.
type Message struct {
	ID             string `json:"id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	Timestamp      int64  `json:"timestamp"`
	VideoTimestamp string `json:"video_timestamp,omitempty"`
}

// Thread is one independent chat history within a (course, lesson) scope.
type Thread struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// TabState is the persisted tab list for a (course, lesson) scope: the
// ordered thread ids plus any derived titles.
type TabState struct {
	TabIDs []string          `json:"tabIds"`
	Titles map[string]string `json:"titles"`
}

type Comment struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt int64  `json:"created_at"`
}

// ChatRequest is the canonical chat submission after the handler has
// normalized the accepted legacy field variants.
type ChatRequest struct {
	CourseID       string
	LessonID       string
	Message        string
	VideoTimestamp string
	VideoName      string
	ConversationID string
	Image          string
	ImageMimeType  string
}

// ChatReply is the orchestrator's normalized answer. Steps carries the
// external backend's opaque trace objects when present.
type ChatReply struct {
	Content        string        `json:"content"`
	ConversationID string        `json:"conversation_id,omitempty"`
	Steps          []interface{} `json:"steps,omitempty"`
}

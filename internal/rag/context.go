package rag

import (
	"fmt"
	"strings"

	"github.com/airclass/airclass/internal/model"
)

// NoContextSentinel is returned by BuildContext when retrieval found
// nothing relevant; the prompt template tells the model to answer from
// general knowledge in that case.
const NoContextSentinel = "（目前沒有檢索到與課程相關的內容，請依一般知識回答。）"

// BuildContext renders ranked chunks into the grounding block injected
// into the system prompt: numbered bracketed entries separated by a blank
// line, in the given order.
func BuildContext(chunks []model.Chunk) string {
	if len(chunks) == 0 {
		return NoContextSentinel
	}
	entries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		entries = append(entries, fmt.Sprintf("【%d】%s\n%s", i+1, chunk.Title, chunk.Content))
	}
	return strings.Join(entries, "\n\n")
}

// BuildSystemPrompt assembles the AI-TA system prompt. The time hint line
// is included only when the caller supplies a video timestamp.
func BuildSystemPrompt(context, videoTimestamp string) string {
	timeHint := ""
	if videoTimestamp != "" {
		timeHint = fmt.Sprintf("使用者目前影片時間戳：%s，若問題與影片內容有關可一併參考。", videoTimestamp)
	}
	return fmt.Sprintf(`你是這門課的 AI 助教，用繁體中文回答。請根據以下「課程相關內容」優先回答學生的問題；若內容不足以回答，可簡要補充並建議查閱教材或課堂錄影。

課程相關內容：
%s
%s
回答時簡潔、友善，必要時可列點或使用 Markdown。`, context, timeHint)
}

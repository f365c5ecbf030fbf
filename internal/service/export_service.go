package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/airclass/airclass/internal/model"
	appErr "github.com/airclass/airclass/internal/pkg/errors"
)

// ExportService renders a thread's transcript as markdown or HTML.
type ExportService struct {
	threads *ThreadService
}

func NewExportService(threads *ThreadService) *ExportService {
	return &ExportService{threads: threads}
}

// Export returns the transcript body and its content type. Supported
// formats are "markdown" (default) and "html".
func (s *ExportService) Export(ctx context.Context, courseID, lessonID, threadID, format string) ([]byte, string, error) {
	thread, err := s.threads.GetThread(ctx, courseID, lessonID, threadID)
	if err != nil {
		return nil, "", err
	}
	markdown := renderTranscript(courseID, lessonID, thread)
	switch format {
	case "", "markdown", "md":
		return []byte(markdown), "text/markdown; charset=utf-8", nil
	case "html":
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
			return nil, "", fmt.Errorf("render transcript: %w", err)
		}
		return buf.Bytes(), "text/html; charset=utf-8", nil
	default:
		return nil, "", fmt.Errorf("%w: format %q", appErr.ErrInvalid, format)
	}
}

func renderTranscript(courseID, lessonID string, thread *model.Thread) string {
	var sb strings.Builder
	title := thread.Title
	if title == "" {
		title = thread.ID
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("課程：%s／章節：%s\n\n", courseID, lessonID))
	for _, msg := range thread.Messages {
		role := "AI 助教"
		if msg.Role == model.RoleUser {
			role = "學生"
		}
		when := time.Unix(msg.Timestamp, 0).Format("2006-01-02 15:04")
		sb.WriteString(fmt.Sprintf("**%s**（%s）", role, when))
		if msg.VideoTimestamp != "" {
			sb.WriteString(fmt.Sprintf("［影片 %s］", msg.VideoTimestamp))
		}
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/airclass/airclass/internal/service"
)

// RetentionJob prunes persisted chat threads and comments that have gone
// stale. Every scope keeps at least one thread regardless of age.
type RetentionJob struct {
	threads  *service.ThreadService
	comments *service.CommentService
	maxAge   time.Duration
}

func NewRetentionJob(threads *service.ThreadService, comments *service.CommentService, maxAge time.Duration) *RetentionJob {
	return &RetentionJob{threads: threads, comments: comments, maxAge: maxAge}
}

func (j *RetentionJob) Name() string {
	return "chat_retention"
}

func (j *RetentionJob) Run(ctx context.Context) error {
	if j.threads == nil || j.maxAge <= 0 {
		return nil
	}
	removedThreads, err := j.threads.PruneStale(ctx, j.maxAge)
	if err != nil {
		return err
	}
	removedComments := 0
	if j.comments != nil {
		cutoff := time.Now().Add(-j.maxAge).Unix()
		removedComments, err = j.comments.PruneBefore(ctx, cutoff)
		if err != nil {
			return err
		}
	}
	logutil.GetLogger(ctx).Info("retention pass done",
		zap.Int("threads_removed", removedThreads),
		zap.Int("comments_removed", removedComments))
	return nil
}

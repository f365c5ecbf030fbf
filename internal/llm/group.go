package llm

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type ChatterEntry struct {
	Name    string
	Chatter Chatter
}

type groupChatter struct {
	items []ChatterEntry
}

// NewGroupChatter chains chatters in priority order: the first one that
// answers wins, failures are logged and the next entry is tried. Returns
// nil when no entries are configured.
func NewGroupChatter(items []ChatterEntry) Chatter {
	if len(items) == 0 {
		return nil
	}
	return &groupChatter{items: items}
}

func (g *groupChatter) Chat(ctx context.Context, system string, user string) (string, error) {
	var lastErr error
	for i, item := range g.items {
		if item.Chatter == nil {
			continue
		}
		res, err := item.Chatter.Chat(ctx, system, user)
		if err == nil {
			return res, nil
		}
		lastErr = err
		logutil.GetLogger(ctx).Warn("chatter failed", zap.Int("index", i), zap.String("name", item.Name), zap.Error(err))
	}
	if lastErr == nil {
		return "", fmt.Errorf("chatter not configured")
	}
	return "", lastErr
}

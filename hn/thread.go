package hn

import "context"

// ThreadComment is a comment placed in a thread at a nesting depth.
// Top-level comments have depth 0.
type ThreadComment struct {
	Comment
	Depth int
}

// FetchCommentThread loads the comments for ids and their replies,
// depth-first, down to maxDepth levels below the top level. Each comment is
// followed by its replies. Siblings keep the order given by the API; comments
// that fail to load are skipped along with their replies.
//
// A negative maxDepth loads only the top level.
func (s *Service) FetchCommentThread(ctx context.Context, ids []int, maxDepth int) []ThreadComment {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return s.fetchThreadLevel(ctx, ids, 0, maxDepth)
}

func (s *Service) fetchThreadLevel(ctx context.Context, ids []int, depth, maxDepth int) []ThreadComment {
	if len(ids) == 0 || ctx.Err() != nil {
		return nil
	}

	// The batch returns completion order; restore the API's ordering.
	byID := make(map[int]Comment, len(ids))
	for _, c := range s.FetchCommentsConcurrent(ctx, ids) {
		byID[c.ID] = c
	}

	thread := make([]ThreadComment, 0, len(byID))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			continue
		}
		thread = append(thread, ThreadComment{Comment: c, Depth: depth})
		if depth < maxDepth && len(c.Kids) > 0 {
			thread = append(thread, s.fetchThreadLevel(ctx, c.Kids, depth+1, maxDepth)...)
		}
	}
	return thread
}

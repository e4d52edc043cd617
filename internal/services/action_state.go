package services

import (
	"context"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type RepostLookup interface {
	RepostedPostIDs(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
}

type LikeLookup interface {
	LikedPostIDs(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
}

type BookmarkLookup interface {
	BookmarkedPostIDs(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
}

type StatsLookup interface {
	FindUserStats(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]models.PostStats, error)
}

// ActionStateResolver computes what a viewer has done to a set of posts.
type ActionStateResolver struct {
	reposts   RepostLookup
	likes     LikeLookup
	bookmarks BookmarkLookup
	stats     StatsLookup
}

// NewActionStateResolver creates a new ActionStateResolver
func NewActionStateResolver(reposts RepostLookup, likes LikeLookup, bookmarks BookmarkLookup, stats StatsLookup) *ActionStateResolver {
	return &ActionStateResolver{reposts: reposts, likes: likes, bookmarks: bookmarks, stats: stats}
}

// Resolve returns one state per requested post, keyed by hex id. Without a
// viewer every post gets the zero state and nothing is looked up. The four
// lookups run concurrently; the first failure cancels the rest.
func (r *ActionStateResolver) Resolve(ctx context.Context, viewerID uint, postIDs ...primitive.ObjectID) (models.ActionStates, error) {
	states := make(models.ActionStates, len(postIDs))
	if viewerID == 0 {
		for _, id := range postIDs {
			states[id.Hex()] = models.LoggedInUserActionState{}
		}
		return states, nil
	}

	ids := lo.Uniq(postIDs)
	var (
		reposted, liked, bookmarked []primitive.ObjectID
		stats                       []models.PostStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		reposted, err = r.reposts.RepostedPostIDs(gctx, viewerID, ids)
		return err
	})
	g.Go(func() (err error) {
		liked, err = r.likes.LikedPostIDs(gctx, viewerID, ids)
		return err
	})
	g.Go(func() (err error) {
		bookmarked, err = r.bookmarks.BookmarkedPostIDs(gctx, viewerID, ids)
		return err
	})
	g.Go(func() (err error) {
		stats, err = r.stats.FindUserStats(gctx, viewerID, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	repostSet := lo.SliceToMap(reposted, func(id primitive.ObjectID) (primitive.ObjectID, struct{}) { return id, struct{}{} })
	likeSet := lo.SliceToMap(liked, func(id primitive.ObjectID) (primitive.ObjectID, struct{}) { return id, struct{}{} })
	bookmarkSet := lo.SliceToMap(bookmarked, func(id primitive.ObjectID) (primitive.ObjectID, struct{}) { return id, struct{}{} })
	statsByPost := lo.KeyBy(stats, func(s models.PostStats) primitive.ObjectID { return s.PostID })

	for _, id := range ids {
		var state models.LoggedInUserActionState
		if st, ok := statsByPost[id]; ok {
			state.ApplyStats(&st)
		}
		_, state.IsReposted = repostSet[id]
		_, state.IsLiked = likeSet[id]
		_, state.IsBookmarked = bookmarkSet[id]
		states[id.Hex()] = state
	}
	return states, nil
}

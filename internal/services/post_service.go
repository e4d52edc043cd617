package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/anonto42/chirp/backend/pkg/apifeatures"
	"github.com/anonto42/chirp/backend/pkg/apperror"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const noUpdateDataMessage = "No data received in the request. Please provide some properties to update."

type MiniUserLoader interface {
	GetMiniUsers(ctx context.Context, ids []uint) (map[uint]models.MiniUser, error)
}

type PollVoteLookup interface {
	FindUserVotes(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]models.PollVote, error)
}

// PostService owns post writes, engagement toggles and view assembly.
type PostService struct {
	posts       repositories.PostRepository
	promotional repositories.PromotionalPostRepository
	likes       repositories.LikeRepository
	reposts     repositories.RepostRepository
	bookmarks   repositories.BookmarkRepository
	votes       PollVoteLookup
	users       MiniUserLoader
	resolver    *ActionStateResolver
	now         func() time.Time
}

type PostServiceDeps struct {
	Posts       repositories.PostRepository
	Promotional repositories.PromotionalPostRepository
	Likes       repositories.LikeRepository
	Reposts     repositories.RepostRepository
	Bookmarks   repositories.BookmarkRepository
	Votes       PollVoteLookup
	Users       MiniUserLoader
	Resolver    *ActionStateResolver
}

// NewPostService creates a new PostService
func NewPostService(deps PostServiceDeps) *PostService {
	return &PostService{
		posts:       deps.Posts,
		promotional: deps.Promotional,
		likes:       deps.Likes,
		reposts:     deps.Reposts,
		bookmarks:   deps.Bookmarks,
		votes:       deps.Votes,
		users:       deps.Users,
		resolver:    deps.Resolver,
		now:         time.Now,
	}
}

// undo logs a compensating delete that failed after a counter update failed.
// Counters aren't transactional, so the inserted document is removed instead.
func undo(cause error, what string, err error) {
	if err != nil {
		log.Error().Err(err).AnErr("cause", cause).Str("document", what).Msg("failed to undo insert after counter update")
	}
}

func postNotFound(id primitive.ObjectID) error {
	return apperror.New(fmt.Sprintf("Post with id %s not found", id.Hex()), http.StatusNotFound)
}

// Query lists posts using the request's filter, sort, fields and page parameters.
func (s *PostService) Query(ctx context.Context, viewerID uint, params url.Values) ([]models.PostView, error) {
	features := apifeatures.New(params, models.PostSchema).Filter().Sort().LimitFields().Paginate()
	if err := features.Err(); err != nil {
		return nil, err
	}
	posts, err := s.posts.Query(ctx, features)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, viewerID, posts)
}

func (s *PostService) GetByID(ctx context.Context, viewerID uint, id primitive.ObjectID) (*models.PostView, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, viewerID, post)
}

func (s *PostService) getPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, postNotFound(id)
	}
	return post, err
}

func (s *PostService) Add(ctx context.Context, viewerID uint, in *models.PostInput) (*models.PostView, error) {
	post := in.ToPost(viewerID, s.now())
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.view(ctx, viewerID, post)
}

// AddThread inserts the posts in order and returns the first one.
func (s *PostService) AddThread(ctx context.Context, viewerID uint, ins []models.PostInput) (*models.PostView, error) {
	if len(ins) == 0 {
		return nil, apperror.New("thread must contain at least one post", http.StatusBadRequest)
	}
	now := s.now()
	posts := make([]*models.Post, 0, len(ins))
	for i := range ins {
		// Keep the thread order stable under the default createdAt sort.
		posts = append(posts, ins[i].ToPost(viewerID, now.Add(time.Duration(i)*time.Millisecond)))
	}
	if err := s.posts.CreateMany(ctx, posts); err != nil {
		return nil, err
	}
	return s.view(ctx, viewerID, posts[0])
}

// AddReply creates a reply under parentID and bumps the parent's reply count.
func (s *PostService) AddReply(ctx context.Context, viewerID uint, parentID primitive.ObjectID, in *models.PostInput) (*models.ReplyResult, error) {
	if _, err := s.getPost(ctx, parentID); err != nil {
		return nil, err
	}
	reply := in.ToPost(viewerID, s.now())
	reply.ParentPostID = &parentID
	if err := s.posts.Create(ctx, reply); err != nil {
		return nil, err
	}
	if err := s.posts.IncrementCounter(ctx, parentID, repositories.CounterReplies, 1); err != nil {
		undo(err, "reply", s.posts.DeleteOwned(ctx, reply.ID, viewerID))
		return nil, err
	}

	parent, err := s.getPost(ctx, parentID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, viewerID, []models.Post{*parent, *reply})
	if err != nil {
		return nil, err
	}
	return &models.ReplyResult{Post: &views[0], Reply: &views[1]}, nil
}

// Quote creates a post quoting quotedID. A body with no content is a plain repost.
func (s *PostService) Quote(ctx context.Context, viewerID uint, quotedID primitive.ObjectID, in *models.PostInput) (interface{}, error) {
	if in.IsEmpty() {
		return s.AddRepost(ctx, viewerID, quotedID)
	}
	if _, err := s.getPost(ctx, quotedID); err != nil {
		return nil, err
	}
	post := in.ToPost(viewerID, s.now())
	post.QuotedPostID = &quotedID
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.view(ctx, viewerID, post)
}

// Update patches a post owned by the viewer.
func (s *PostService) Update(ctx context.Context, viewerID uint, id primitive.ObjectID, req models.UpdatePostRequest) (*models.PostView, error) {
	set := req.SetFields()
	if set == nil {
		return nil, apperror.New(noUpdateDataMessage, http.StatusBadRequest)
	}
	post, err := s.posts.UpdateOwned(ctx, id, viewerID, set)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, postNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return s.view(ctx, viewerID, post)
}

// Remove deletes a post owned by the viewer.
func (s *PostService) Remove(ctx context.Context, viewerID uint, id primitive.ObjectID) error {
	err := s.posts.DeleteOwned(ctx, id, viewerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return postNotFound(id)
	}
	return err
}

func (s *PostService) AddRepost(ctx context.Context, viewerID uint, postID primitive.ObjectID) (*models.RepostResult, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}
	repost := &models.Repost{PostID: postID, RepostOwnerID: viewerID}
	if err := s.reposts.CreateRepost(ctx, repost); err != nil {
		return nil, err
	}
	if err := s.posts.IncrementCounter(ctx, postID, repositories.CounterReposts, 1); err != nil {
		undo(err, "repost", s.reposts.DeleteRepost(ctx, postID, viewerID))
		return nil, err
	}

	view, err := s.GetByID(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	reposter, err := s.users.GetMiniUsers(ctx, []uint{viewerID})
	if err != nil {
		return nil, err
	}
	result := &models.RepostResult{
		Post:   view,
		Repost: &models.RepostView{PostView: *view, RepostedAt: repost.CreatedAt},
	}
	if mini, ok := reposter[viewerID]; ok {
		result.Repost.RepostedBy = &mini
	}
	return result, nil
}

func (s *PostService) RemoveRepost(ctx context.Context, viewerID uint, postID primitive.ObjectID) (*models.PostView, error) {
	err := s.reposts.DeleteRepost(ctx, postID, viewerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.New("Post is not reposted", http.StatusNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.posts.IncrementCounter(ctx, postID, repositories.CounterReposts, -1); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return s.GetByID(ctx, viewerID, postID)
}

func (s *PostService) AddLike(ctx context.Context, viewerID uint, postID primitive.ObjectID) (*models.PostView, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.likes.CreateLike(ctx, &models.PostLike{PostID: postID, UserID: viewerID}); err != nil {
		return nil, err
	}
	if err := s.posts.IncrementCounter(ctx, postID, repositories.CounterLikes, 1); err != nil {
		undo(err, "like", s.likes.DeleteLike(ctx, postID, viewerID))
		return nil, err
	}
	return s.GetByID(ctx, viewerID, postID)
}

func (s *PostService) RemoveLike(ctx context.Context, viewerID uint, postID primitive.ObjectID) (*models.PostView, error) {
	err := s.likes.DeleteLike(ctx, postID, viewerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.New("Post is not liked", http.StatusNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.posts.IncrementCounter(ctx, postID, repositories.CounterLikes, -1); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return s.GetByID(ctx, viewerID, postID)
}

func (s *PostService) AddBookmark(ctx context.Context, viewerID uint, postID primitive.ObjectID) (*models.PostView, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.bookmarks.CreateBookmark(ctx, &models.PostBookmark{PostID: postID, BookmarkOwnerID: viewerID}); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, viewerID, postID)
}

func (s *PostService) RemoveBookmark(ctx context.Context, viewerID uint, postID primitive.ObjectID) (*models.PostView, error) {
	err := s.bookmarks.DeleteBookmark(ctx, postID, viewerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.New("Post is not bookmarked", http.StatusNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, viewerID, postID)
}

// Bookmarked lists the viewer's bookmarked posts, newest bookmark first.
// Bookmarks of deleted posts are skipped.
func (s *PostService) Bookmarked(ctx context.Context, viewerID uint) ([]models.PostView, error) {
	ids, err := s.bookmarks.ListBookmarkedPostIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(posts, func(p models.Post) primitive.ObjectID { return p.ID })
	ordered := make([]models.Post, 0, len(posts))
	for _, id := range ids {
		if post, ok := byID[id]; ok {
			ordered = append(ordered, post)
		}
	}
	return s.views(ctx, viewerID, ordered)
}

func (s *PostService) QueryPromotional(ctx context.Context, params url.Values) ([]models.PromotionalPostView, error) {
	features := apifeatures.New(params, models.PostSchema).Filter().Sort().LimitFields().Paginate()
	if err := features.Err(); err != nil {
		return nil, err
	}
	posts, err := s.promotional.Query(ctx, features)
	if err != nil {
		return nil, err
	}
	authors, err := s.users.GetMiniUsers(ctx, lo.Map(posts, func(p models.PromotionalPost, _ int) uint { return p.CreatedByID }))
	if err != nil {
		return nil, err
	}
	views := make([]models.PromotionalPostView, 0, len(posts))
	for _, p := range posts {
		view := models.PromotionalPostView{PromotionalPost: p}
		if mini, ok := authors[p.CreatedByID]; ok {
			view.CreatedBy = &mini
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *PostService) AddPromotional(ctx context.Context, viewerID uint, in *models.PromotionalPostInput) (*models.PromotionalPost, error) {
	post := &models.PromotionalPost{
		Post:        *in.PostInput.ToPost(viewerID, s.now()),
		CompanyName: in.CompanyName,
		LinkToSite:  in.LinkToSite,
		LinkToRepo:  in.LinkToRepo,
	}
	if err := s.promotional.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) view(ctx context.Context, viewerID uint, post *models.Post) (*models.PostView, error) {
	views, err := s.views(ctx, viewerID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views assembles client views. Authors, quoted posts, viewer action states
// and viewer poll votes are loaded concurrently.
func (s *PostService) views(ctx context.Context, viewerID uint, posts []models.Post) ([]models.PostView, error) {
	views := make([]models.PostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := lo.Map(posts, func(p models.Post, _ int) primitive.ObjectID { return p.ID })
	var (
		authors     map[uint]models.MiniUser
		quoted      map[primitive.ObjectID]models.QuotedPost
		states      models.ActionStates
		votesByPost map[primitive.ObjectID]models.PollVote
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		authors, err = s.users.GetMiniUsers(gctx, lo.Map(posts, func(p models.Post, _ int) uint { return p.CreatedByID }))
		return err
	})
	g.Go(func() (err error) {
		quoted, err = s.quotedPosts(gctx, posts)
		return err
	})
	g.Go(func() (err error) {
		states, err = s.resolver.Resolve(gctx, viewerID, postIDs...)
		return err
	})
	g.Go(func() error {
		if viewerID == 0 {
			return nil
		}
		withPoll := lo.FilterMap(posts, func(p models.Post, _ int) (primitive.ObjectID, bool) { return p.ID, p.Poll != nil })
		votes, err := s.votes.FindUserVotes(gctx, viewerID, withPoll)
		if err != nil {
			return err
		}
		votesByPost = lo.KeyBy(votes, func(v models.PollVote) primitive.ObjectID { return v.PostID })
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, post := range posts {
		view := models.PostView{Post: post, LoggedInUserActionState: states[post.ID.Hex()]}
		if mini, ok := authors[post.CreatedByID]; ok {
			view.CreatedBy = &mini
		}
		if post.QuotedPostID != nil {
			if q, ok := quoted[*post.QuotedPostID]; ok {
				view.QuotedPost = &q
			}
		}
		if post.Poll != nil {
			poll := *post.Poll
			poll.Options = append([]models.PollOption(nil), post.Poll.Options...)
			if vote, ok := votesByPost[post.ID]; ok && vote.OptionIdx >= 0 && vote.OptionIdx < len(poll.Options) {
				poll.Options[vote.OptionIdx].IsLoggedInUserVoted = true
			}
			view.Poll = &poll
		}
		views[i] = view
	}
	return views, nil
}

func (s *PostService) quotedPosts(ctx context.Context, posts []models.Post) (map[primitive.ObjectID]models.QuotedPost, error) {
	ids := lo.Uniq(lo.FilterMap(posts, func(p models.Post, _ int) (primitive.ObjectID, bool) {
		if p.QuotedPostID == nil {
			return primitive.NilObjectID, false
		}
		return *p.QuotedPostID, true
	}))
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.posts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors, err := s.users.GetMiniUsers(ctx, lo.Map(found, func(p models.Post, _ int) uint { return p.CreatedByID }))
	if err != nil {
		return nil, err
	}
	result := make(map[primitive.ObjectID]models.QuotedPost, len(found))
	for _, p := range found {
		q := models.QuotedPost{Post: p}
		if mini, ok := authors[p.CreatedByID]; ok {
			q.CreatedBy = &mini
		}
		result[p.ID] = q
	}
	return result, nil
}

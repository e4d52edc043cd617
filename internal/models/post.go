package models

import (
	"net/http"
	"time"

	"github.com/anonto42/chirp/backend/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostImg struct {
	URL       string `json:"url" bson:"url" validate:"required,url"`
	SortOrder int    `json:"sortOrder" bson:"sortOrder"`
}

// PostGif is the gif attached to a post.
type PostGif struct {
	URL       string `json:"url" bson:"url" validate:"required,url"`
	StaticURL string `json:"staticUrl" bson:"staticUrl"`
}

type Location struct {
	PlaceID string  `json:"placeId" bson:"placeId"`
	Name    string  `json:"name" bson:"name"`
	Lat     float64 `json:"lat" bson:"lat"`
	Lng     float64 `json:"lng" bson:"lng"`
}

type PostOwner struct {
	UserID   uint   `json:"userId" bson:"userId"`
	Username string `json:"username" bson:"username"`
}

type RepliedPostDetails struct {
	PostID    string    `json:"postId" bson:"postId"`
	PostOwner PostOwner `json:"postOwner" bson:"postOwner"`
}

type PollLength struct {
	Days    int `json:"days" bson:"days" validate:"min=0,max=7"`
	Hours   int `json:"hours" bson:"hours" validate:"min=0,max=23"`
	Minutes int `json:"minutes" bson:"minutes" validate:"min=0,max=59"`
}

func (l PollLength) Duration() time.Duration {
	return time.Duration(l.Days)*24*time.Hour +
		time.Duration(l.Hours)*time.Hour +
		time.Duration(l.Minutes)*time.Minute
}

type PollOption struct {
	Text      string `json:"text" bson:"text"`
	VoteCount int    `json:"voteCount" bson:"voteCount"`
	// Set per viewer when the view is assembled, never stored.
	IsLoggedInUserVoted bool `json:"isLoggedInUserVoted" bson:"-"`
}

type Poll struct {
	Options     []PollOption `json:"options" bson:"options"`
	Length      PollLength   `json:"length" bson:"length"`
	IsVotingOff bool         `json:"isVotingOff" bson:"isVotingOff"`
	CreatedAt   time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// EndsAt is the moment voting closes. A zero length never closes.
func (p *Poll) EndsAt() time.Time {
	if p.Length.Duration() == 0 {
		return time.Time{}
	}
	return p.CreatedAt.Add(p.Length.Duration())
}

// IsClosed reports whether votes are no longer accepted at now.
func (p *Poll) IsClosed(now time.Time) bool {
	if p.IsVotingOff {
		return true
	}
	end := p.EndsAt()
	return !end.IsZero() && !now.Before(end)
}

// Post represents a post, reply or quote stored in MongoDB
type Post struct {
	ID                 primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Text               string               `json:"text" bson:"text"`
	Imgs               []PostImg            `json:"imgs" bson:"imgs"`
	VideoURL           string               `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	Gif                *PostGif             `json:"gif" bson:"gif,omitempty"`
	Poll               *Poll                `json:"poll" bson:"poll,omitempty"`
	Schedule           *time.Time           `json:"schedule,omitempty" bson:"schedule,omitempty"`
	Location           *Location            `json:"location,omitempty" bson:"location,omitempty"`
	IsPublic           bool                 `json:"isPublic" bson:"isPublic"`
	IsPinned           bool                 `json:"isPinned" bson:"isPinned"`
	Audience           string               `json:"audience" bson:"audience"`
	RepliersType       string               `json:"repliersType" bson:"repliersType"`
	RepliedPostDetails []RepliedPostDetails `json:"repliedPostDetails,omitempty" bson:"repliedPostDetails,omitempty"`
	CreatedByID        uint                 `json:"createdById" bson:"createdById"`
	QuotedPostID       *primitive.ObjectID  `json:"quotedPostId,omitempty" bson:"quotedPostId,omitempty"`
	ParentPostID       *primitive.ObjectID  `json:"parentPostId,omitempty" bson:"parentPostId,omitempty"`
	RepliesCount       int                  `json:"repliesCount" bson:"repliesCount"`
	RepostsCount       int                  `json:"repostsCount" bson:"repostsCount"`
	LikesCount         int                  `json:"likesCount" bson:"likesCount"`
	ViewsCount         int                  `json:"viewsCount" bson:"viewsCount"`
	CreatedAt          time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt" bson:"updatedAt"`
}

func (p *Post) HasContent() bool {
	return p.Text != "" || len(p.Imgs) > 0 || p.VideoURL != "" || p.Gif != nil || p.Poll != nil
}

// Validate enforces the document rules the request tags can't express.
func (p *Post) Validate() error {
	if p.CreatedByID == 0 {
		return apperror.New("post must have a creator", http.StatusBadRequest)
	}
	if !p.HasContent() {
		return apperror.New("post must have content", http.StatusBadRequest)
	}
	if p.Poll != nil {
		if len(p.Poll.Options) < 2 || len(p.Poll.Options) > 4 {
			return apperror.New("poll must have between 2 and 4 options", http.StatusBadRequest)
		}
		for _, opt := range p.Poll.Options {
			if opt.Text == "" {
				return apperror.New("poll option must have text", http.StatusBadRequest)
			}
		}
	}
	return nil
}

// PostInput is the request body for a new post, reply, quote or thread item.
type PostInput struct {
	Text               string               `json:"text" validate:"max=280"`
	Imgs               []PostImg            `json:"imgs" validate:"max=4,dive"`
	VideoURL           string               `json:"videoUrl" validate:"omitempty,url"`
	Gif                *PostGif             `json:"gif"`
	Poll               *PollInput           `json:"poll"`
	Schedule           *time.Time           `json:"schedule"`
	Location           *Location            `json:"location"`
	IsPublic           *bool                `json:"isPublic"`
	Audience           string               `json:"audience" validate:"omitempty,oneof=everyone circle"`
	RepliersType       string               `json:"repliersType" validate:"omitempty,oneof=everyone followed mentioned"`
	RepliedPostDetails []RepliedPostDetails `json:"repliedPostDetails"`
}

type PollInput struct {
	Options []PollOptionInput `json:"options" validate:"min=2,max=4,dive"`
	Length  PollLength        `json:"length"`
}

type PollOptionInput struct {
	Text string `json:"text" validate:"required,max=25"`
}

// IsEmpty reports a body with nothing to post, which a quote treats as a repost.
func (in *PostInput) IsEmpty() bool {
	return in.Text == "" && len(in.Imgs) == 0 && in.VideoURL == "" && in.Gif == nil && in.Poll == nil
}

// ToPost builds the stored document.
func (in *PostInput) ToPost(createdByID uint, now time.Time) *Post {
	post := &Post{
		Text:               in.Text,
		Imgs:               in.Imgs,
		VideoURL:           in.VideoURL,
		Gif:                in.Gif,
		Schedule:           in.Schedule,
		Location:           in.Location,
		IsPublic:           true,
		Audience:           "everyone",
		RepliersType:       "everyone",
		RepliedPostDetails: in.RepliedPostDetails,
		CreatedByID:        createdByID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if post.Imgs == nil {
		post.Imgs = []PostImg{}
	}
	if in.IsPublic != nil {
		post.IsPublic = *in.IsPublic
	}
	if in.Audience != "" {
		post.Audience = in.Audience
	}
	if in.RepliersType != "" {
		post.RepliersType = in.RepliersType
	}
	if in.Poll != nil {
		poll := &Poll{Length: in.Poll.Length, CreatedAt: now, UpdatedAt: now}
		for _, opt := range in.Poll.Options {
			poll.Options = append(poll.Options, PollOption{Text: opt.Text})
		}
		post.Poll = poll
	}
	return post
}

// UpdatePostRequest holds the fields an owner may patch.
type UpdatePostRequest struct {
	Text         *string    `json:"text" validate:"omitempty,max=280"`
	Imgs         *[]PostImg `json:"imgs" validate:"omitempty,max=4,dive"`
	IsPublic     *bool      `json:"isPublic"`
	IsPinned     *bool      `json:"isPinned"`
	Audience     *string    `json:"audience" validate:"omitempty,oneof=everyone circle"`
	RepliersType *string    `json:"repliersType" validate:"omitempty,oneof=everyone followed mentioned"`
	Schedule     *time.Time `json:"schedule"`
	Location     *Location  `json:"location"`
}

// SetFields returns the $set document, or nil when the body carried nothing.
func (r UpdatePostRequest) SetFields() bson.M {
	set := bson.M{}
	if r.Text != nil {
		set["text"] = *r.Text
	}
	if r.Imgs != nil {
		set["imgs"] = *r.Imgs
	}
	if r.IsPublic != nil {
		set["isPublic"] = *r.IsPublic
	}
	if r.IsPinned != nil {
		set["isPinned"] = *r.IsPinned
	}
	if r.Audience != nil {
		set["audience"] = *r.Audience
	}
	if r.RepliersType != nil {
		set["repliersType"] = *r.RepliersType
	}
	if r.Schedule != nil {
		set["schedule"] = *r.Schedule
	}
	if r.Location != nil {
		set["location"] = *r.Location
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// QuotedPost is a quoted post with its author, without viewer state.
type QuotedPost struct {
	Post
	CreatedBy *MiniUser `json:"createdBy"`
}

// PostView is a post as returned to clients.
type PostView struct {
	Post
	CreatedBy               *MiniUser               `json:"createdBy"`
	QuotedPost              *QuotedPost             `json:"quotedPost,omitempty"`
	LoggedInUserActionState LoggedInUserActionState `json:"loggedInUserActionState"`
}

// RepostView is a reposted post together with who reposted it.
type RepostView struct {
	PostView
	RepostedBy *MiniUser `json:"repostedBy"`
	RepostedAt time.Time `json:"repostedAt"`
}

type ReplyResult struct {
	Post  *PostView `json:"post"`
	Reply *PostView `json:"reply"`
}

type RepostResult struct {
	Post   *PostView   `json:"post"`
	Repost *RepostView `json:"repost"`
}

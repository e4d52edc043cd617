package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStats is one viewer's interactions with one post (MongoDB post_stats)
type PostStats struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PostID              primitive.ObjectID `json:"postId" bson:"postId"`
	UserID              uint               `json:"userId" bson:"userId"`
	IsViewed            bool               `json:"isViewed" bson:"isViewed"`
	IsDetailedViewed    bool               `json:"isDetailedViewed" bson:"isDetailedViewed"`
	IsProfileViewed     bool               `json:"isProfileViewed" bson:"isProfileViewed"`
	IsFollowedFromPost  bool               `json:"isFollowedFromPost" bson:"isFollowedFromPost"`
	IsHashTagClicked    bool               `json:"isHashTagClicked" bson:"isHashTagClicked"`
	IsLinkClicked       bool               `json:"isLinkClicked" bson:"isLinkClicked"`
	IsPostLinkCopied    bool               `json:"isPostLinkCopied" bson:"isPostLinkCopied"`
	IsPostShared        bool               `json:"isPostShared" bson:"isPostShared"`
	IsPostSendInMessage bool               `json:"isPostSendInMessage" bson:"isPostSendInMessage"`
	IsPostBookmarked    bool               `json:"isPostBookmarked" bson:"isPostBookmarked"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PostStatsInput is a partial stats body. Absent flags are left untouched.
type PostStatsInput struct {
	IsViewed            *bool `json:"isViewed"`
	IsDetailedViewed    *bool `json:"isDetailedViewed"`
	IsProfileViewed     *bool `json:"isProfileViewed"`
	IsFollowedFromPost  *bool `json:"isFollowedFromPost"`
	IsHashTagClicked    *bool `json:"isHashTagClicked"`
	IsLinkClicked       *bool `json:"isLinkClicked"`
	IsPostLinkCopied    *bool `json:"isPostLinkCopied"`
	IsPostShared        *bool `json:"isPostShared"`
	IsPostSendInMessage *bool `json:"isPostSendInMessage"`
	IsPostBookmarked    *bool `json:"isPostBookmarked"`
}

// SetFields returns the flags that were sent as a $set document.
func (in PostStatsInput) SetFields() bson.M {
	set := bson.M{}
	put := func(key string, v *bool) {
		if v != nil {
			set[key] = *v
		}
	}
	put("isViewed", in.IsViewed)
	put("isDetailedViewed", in.IsDetailedViewed)
	put("isProfileViewed", in.IsProfileViewed)
	put("isFollowedFromPost", in.IsFollowedFromPost)
	put("isHashTagClicked", in.IsHashTagClicked)
	put("isLinkClicked", in.IsLinkClicked)
	put("isPostLinkCopied", in.IsPostLinkCopied)
	put("isPostShared", in.IsPostShared)
	put("isPostSendInMessage", in.IsPostSendInMessage)
	put("isPostBookmarked", in.IsPostBookmarked)
	return set
}

// Apply copies the sent flags onto a new stats document.
func (in PostStatsInput) Apply(s *PostStats) {
	get := func(v *bool, dst *bool) {
		if v != nil {
			*dst = *v
		}
	}
	get(in.IsViewed, &s.IsViewed)
	get(in.IsDetailedViewed, &s.IsDetailedViewed)
	get(in.IsProfileViewed, &s.IsProfileViewed)
	get(in.IsFollowedFromPost, &s.IsFollowedFromPost)
	get(in.IsHashTagClicked, &s.IsHashTagClicked)
	get(in.IsLinkClicked, &s.IsLinkClicked)
	get(in.IsPostLinkCopied, &s.IsPostLinkCopied)
	get(in.IsPostShared, &s.IsPostShared)
	get(in.IsPostSendInMessage, &s.IsPostSendInMessage)
	get(in.IsPostBookmarked, &s.IsPostBookmarked)
}

// PostStatsSummary aggregates every viewer's stats of a post.
type PostStatsSummary struct {
	LikesCount          int `json:"likesCount" bson:"likesCount"`
	RepostCount         int `json:"repostCount" bson:"repostCount"`
	RepliesCount        int `json:"repliesCount" bson:"repliesCount"`
	ViewsCount          int `json:"viewsCount" bson:"viewsCount"`
	DetailsViewsCount   int `json:"detailsViewsCount" bson:"detailsViewsCount"`
	ProfileViewsCount   int `json:"profileViewsCount" bson:"profileViewsCount"`
	FollowFromPostCount int `json:"followFromPostCount" bson:"followFromPostCount"`
	HashTagClicksCount  int `json:"hashTagClicksCount" bson:"hashTagClicksCount"`
	LinkClicksCount     int `json:"linkClicksCount" bson:"linkClicksCount"`
	PostLinkCopyCount   int `json:"postLinkCopyCount" bson:"postLinkCopyCount"`
	PostSharedCount     int `json:"postSharedCount" bson:"postSharedCount"`
	PostViaMsgCount     int `json:"postViaMsgCount" bson:"postViaMsgCount"`
	PostBookmarksCount  int `json:"postBookmarksCount" bson:"postBookmarksCount"`
	EngagementCount     int `json:"engagementCount" bson:"engagementCount"`
}

// LoggedInUserActionState is what the viewer has done to a post.
type LoggedInUserActionState struct {
	IsLiked             bool `json:"isLiked"`
	IsReposted          bool `json:"isReposted"`
	IsViewed            bool `json:"isViewed"`
	IsDetailedViewed    bool `json:"isDetailedViewed"`
	IsProfileViewed     bool `json:"isProfileViewed"`
	IsFollowedFromPost  bool `json:"isFollowedFromPost"`
	IsHashTagClicked    bool `json:"isHashTagClicked"`
	IsLinkClicked       bool `json:"isLinkClicked"`
	IsBookmarked        bool `json:"isBookmarked"`
	IsPostLinkCopied    bool `json:"isPostLinkCopied"`
	IsPostShared        bool `json:"isPostShared"`
	IsPostSendInMessage bool `json:"isPostSendInMessage"`
	IsPostBookmarked    bool `json:"isPostBookmarked"`
}

// ActionStates maps hex post ids to the viewer's state.
type ActionStates map[string]LoggedInUserActionState

// ApplyStats copies the stats flags onto the state.
func (s *LoggedInUserActionState) ApplyStats(stats *PostStats) {
	s.IsViewed = stats.IsViewed
	s.IsDetailedViewed = stats.IsDetailedViewed
	s.IsProfileViewed = stats.IsProfileViewed
	s.IsFollowedFromPost = stats.IsFollowedFromPost
	s.IsHashTagClicked = stats.IsHashTagClicked
	s.IsLinkClicked = stats.IsLinkClicked
	s.IsPostLinkCopied = stats.IsPostLinkCopied
	s.IsPostShared = stats.IsPostShared
	s.IsPostSendInMessage = stats.IsPostSendInMessage
	s.IsPostBookmarked = stats.IsPostBookmarked
}

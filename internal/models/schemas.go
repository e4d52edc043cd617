package models

import "github.com/anonto42/chirp/backend/pkg/apifeatures"

// PostSchema lists the post fields a list request may filter, sort or select on.
var PostSchema = apifeatures.Schema{
	"_id":          {Column: "_id", Kind: apifeatures.ObjectID},
	"id":           {Column: "_id", Kind: apifeatures.ObjectID},
	"text":         {Column: "text", Kind: apifeatures.String},
	"imgs":         {Column: "imgs", Kind: apifeatures.String},
	"videoUrl":     {Column: "videoUrl", Kind: apifeatures.String},
	"gif":          {Column: "gif", Kind: apifeatures.String},
	"poll":         {Column: "poll", Kind: apifeatures.String},
	"location":     {Column: "location", Kind: apifeatures.String},
	"schedule":     {Column: "schedule", Kind: apifeatures.Time},
	"isPublic":     {Column: "isPublic", Kind: apifeatures.Bool},
	"isPinned":     {Column: "isPinned", Kind: apifeatures.Bool},
	"audience":     {Column: "audience", Kind: apifeatures.String},
	"repliersType": {Column: "repliersType", Kind: apifeatures.String},
	"createdById":  {Column: "createdById", Kind: apifeatures.Int},
	"quotedPostId": {Column: "quotedPostId", Kind: apifeatures.ObjectID},
	"parentPostId": {Column: "parentPostId", Kind: apifeatures.ObjectID},
	"repliesCount": {Column: "repliesCount", Kind: apifeatures.Int},
	"repostsCount": {Column: "repostsCount", Kind: apifeatures.Int},
	"likesCount":   {Column: "likesCount", Kind: apifeatures.Int},
	"viewsCount":   {Column: "viewsCount", Kind: apifeatures.Int},
	"createdAt":    {Column: "createdAt", Kind: apifeatures.Time},
	"updatedAt":    {Column: "updatedAt", Kind: apifeatures.Time},
}

// UserSchema maps the public user fields to their columns.
var UserSchema = apifeatures.Schema{
	"id":             {Column: "id", Kind: apifeatures.Int},
	"username":       {Column: "username", Kind: apifeatures.String},
	"fullname":       {Column: "fullname", Kind: apifeatures.String},
	"email":          {Column: "email", Kind: apifeatures.String},
	"imgUrl":         {Column: "img_url", Kind: apifeatures.String},
	"bio":            {Column: "bio", Kind: apifeatures.String},
	"isVerified":     {Column: "is_verified", Kind: apifeatures.Bool},
	"isAdmin":        {Column: "is_admin", Kind: apifeatures.Bool},
	"isBot":          {Column: "is_bot", Kind: apifeatures.Bool},
	"followersCount": {Column: "followers_count", Kind: apifeatures.Int},
	"followingCount": {Column: "following_count", Kind: apifeatures.Int},
	"createdAt":      {Column: "created_at", Kind: apifeatures.Time},
	"updatedAt":      {Column: "updated_at", Kind: apifeatures.Time},
}

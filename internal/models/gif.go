package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Gif is a stored gif (MongoDB gifs)
type Gif struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	URL         string             `json:"url" bson:"url"`
	StaticURL   string             `json:"staticUrl" bson:"staticUrl"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category" bson:"category"`
	SortOrder   int                `json:"sortOrder" bson:"sortOrder"`
}

// GifCategory groups gifs (MongoDB gif_categories)
type GifCategory struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	ImgURL    string             `json:"imgUrl" bson:"imgUrl"`
	SortOrder int                `json:"sortOrder" bson:"sortOrder"`
}

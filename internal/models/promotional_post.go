package models

// PromotionalPost is a post shown with a company link (MongoDB promotional_posts)
type PromotionalPost struct {
	Post          `bson:",inline"`
	IsPromotional bool   `json:"isPromotional" bson:"isPromotional"`
	CompanyName   string `json:"companyName" bson:"companyName"`
	LinkToSite    string `json:"linkToSite" bson:"linkToSite"`
	LinkToRepo    string `json:"linkToRepo,omitempty" bson:"linkToRepo,omitempty"`
}

type PromotionalPostInput struct {
	PostInput
	CompanyName string `json:"companyName" validate:"required"`
	LinkToSite  string `json:"linkToSite" validate:"required,url"`
	LinkToRepo  string `json:"linkToRepo" validate:"omitempty,url"`
}

type PromotionalPostView struct {
	PromotionalPost
	CreatedBy *MiniUser `json:"createdBy"`
}

package entity

// Project is a promoted product/brand owned by the ordering user.
type Project struct {
	Id      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	Desc    string `json:"desc" bson:"desc"`
	Website string `json:"website" bson:"website"`
	Icon    string `json:"icon" bson:"icon"`
}

// ProjectDraft carries the fields required to create a new project.
type ProjectDraft struct {
	Name    string `json:"name" validate:"required"`
	Desc    string `json:"desc" validate:"required"`
	Website string `json:"website" validate:"required,url"`
	Icon    string `json:"icon" validate:"required,url"`
}

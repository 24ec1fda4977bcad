package model

type Space struct {
	Model
	Name      string  `gorm:"type:varchar(100);not null" json:"name"`
	Icon      string  `gorm:"type:varchar(50);not null;default:'home'" json:"icon"`
	CreatedBy *string `gorm:"type:varchar(36)" json:"createdBy"`
}

// DefaultSpaces are inserted on first start, in this order.
var DefaultSpaces = []Space{
	{Model: Model{ID: "sp_kitchen"}, Name: "Kitchen", Icon: "cooking-pot"},
	{Model: Model{ID: "sp_bedroom"}, Name: "Bedroom", Icon: "bed-double"},
	{Model: Model{ID: "sp_bathroom"}, Name: "Bathroom", Icon: "bath"},
	{Model: Model{ID: "sp_living"}, Name: "Living Room", Icon: "sofa"},
	{Model: Model{ID: "sp_outdoor"}, Name: "Outdoors", Icon: "trees"},
	{Model: Model{ID: "sp_garage"}, Name: "Garage", Icon: "warehouse"},
	{Model: Model{ID: "sp_office"}, Name: "Office", Icon: "monitor"},
	{Model: Model{ID: "sp_hallway"}, Name: "Hallway & Stairs", Icon: "door-open"},
	{Model: Model{ID: "sp_dining"}, Name: "Dining Room", Icon: "utensils"},
	{Model: Model{ID: "sp_general"}, Name: "General / Whole House", Icon: "home"},
}

package schema

// CoreEventTable represents the 'core.event' table
type CoreEventTable struct {
	Table             string
	ID                string
	Title             string
	Description       string
	Location          string
	StartsAt          string
	EndsAt            string
	ImageURL          string
	DelegationID      string
	IsPublic          string
	VisibleToAllRoles string
	CreatedBy         string
	CreatedAt         string
	UpdatedAt         string
}

// CoreEvent is the schema definition for core.event
var CoreEvent = CoreEventTable{
	Table:             "core.event",
	ID:                "id",
	Title:             "title",
	Description:       "description",
	Location:          "location",
	StartsAt:          "startsat",
	EndsAt:            "endsat",
	ImageURL:          "imageurl",
	DelegationID:      "delegationid",
	IsPublic:          "ispublic",
	VisibleToAllRoles: "visibletoallroles",
	CreatedBy:         "createdby",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
}

// CoreEventRoleTable represents the 'core.eventrole' allow-list table
type CoreEventRoleTable struct {
	Table   string
	EventID string
	RoleID  string
}

// CoreEventRole is the schema definition for core.eventrole
var CoreEventRole = CoreEventRoleTable{
	Table:   "core.eventrole",
	EventID: "eventid",
	RoleID:  "roleid",
}

package schema

// CoreDelegationTable represents the 'core.delegation' table
type CoreDelegationTable struct {
	Table           string
	ID              string
	Name            string
	Slug            string
	City            string
	Region          string
	Address         string
	Phone           string
	Email           string
	PastorName      string
	ServiceSchedule string
	Latitude        string
	Longitude       string
	ImageURL        string
	IsActive        string
	CreatedAt       string
	UpdatedAt       string

	// SlugKey is the unique constraint on slug.
	SlugKey string
}

// CoreDelegation is the schema definition for core.delegation
var CoreDelegation = CoreDelegationTable{
	Table:           "core.delegation",
	ID:              "id",
	Name:            "name",
	Slug:            "slug",
	City:            "city",
	Region:          "region",
	Address:         "address",
	Phone:           "phone",
	Email:           "email",
	PastorName:      "pastorname",
	ServiceSchedule: "serviceschedule",
	Latitude:        "latitude",
	Longitude:       "longitude",
	ImageURL:        "imageurl",
	IsActive:        "isactive",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
	SlugKey:         "delegation_slug_key",
}

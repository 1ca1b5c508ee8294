package schema

// CoreContactMessageTable represents the 'core.contactmessage' table
type CoreContactMessageTable struct {
	Table     string
	ID        string
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	IsRead    string
	CreatedAt string
}

// CoreContactMessage is the schema definition for core.contactmessage
var CoreContactMessage = CoreContactMessageTable{
	Table:     "core.contactmessage",
	ID:        "id",
	Name:      "name",
	Email:     "email",
	Phone:     "phone",
	Subject:   "subject",
	Message:   "message",
	IsRead:    "isread",
	CreatedAt: "createdat",
}

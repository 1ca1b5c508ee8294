package schema

// UserRoleDefTable represents the 'users.role' table
type UserRoleDefTable struct {
	Table       string
	ID          string
	Name        string
	DisplayName string
	Color       string
	Description string
	IsSystem    string
	CreatedAt   string
	UpdatedAt   string
}

// UserRoleDef is the schema definition for users.role
var UserRoleDef = UserRoleDefTable{
	Table:       "users.role",
	ID:          "id",
	Name:        "name",
	DisplayName: "displayname",
	Color:       "color",
	Description: "description",
	IsSystem:    "issystem",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// UserRoleAssignmentTable represents the 'users.userrole' join table
type UserRoleAssignmentTable struct {
	Table      string
	UserID     string
	RoleID     string
	AssignedBy string
	CreatedAt  string

	// PrimaryKey is the constraint that keeps (userid, roleid) unique.
	PrimaryKey string
}

// UserRoleAssignment is the schema definition for users.userrole
var UserRoleAssignment = UserRoleAssignmentTable{
	Table:      "users.userrole",
	UserID:     "userid",
	RoleID:     "roleid",
	AssignedBy: "assignedby",
	CreatedAt:  "createdat",
	PrimaryKey: "userrole_pkey",
}

// FuncGetUserRoles resolves the roles of one user: (roleid, rolename, displayname, color, issystem).
const FuncGetUserRoles = "users.get_user_roles"

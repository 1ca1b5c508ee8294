package schema

// CoreArchivoTable represents the 'core.archivo' table
type CoreArchivoTable struct {
	Table             string
	ID                string
	Name              string
	Description       string
	Folder            string
	ObjectKey         string
	MimeType          string
	SizeBytes         string
	IsPublic          string
	VisibleToAllRoles string
	UploadedBy        string
	CreatedAt         string
	UpdatedAt         string
}

// CoreArchivo is the schema definition for core.archivo
var CoreArchivo = CoreArchivoTable{
	Table:             "core.archivo",
	ID:                "id",
	Name:              "name",
	Description:       "description",
	Folder:            "folder",
	ObjectKey:         "objectkey",
	MimeType:          "mimetype",
	SizeBytes:         "sizebytes",
	IsPublic:          "ispublic",
	VisibleToAllRoles: "visibletoallroles",
	UploadedBy:        "uploadedby",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
}

// CoreArchivoRoleTable represents the 'core.archivorole' allow-list table
type CoreArchivoRoleTable struct {
	Table     string
	ArchivoID string
	RoleID    string
}

// CoreArchivoRole is the schema definition for core.archivorole
var CoreArchivoRole = CoreArchivoRoleTable{
	Table:     "core.archivorole",
	ArchivoID: "archivoid",
	RoleID:    "roleid",
}

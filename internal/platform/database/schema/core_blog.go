package schema

// CoreCategoryTable represents the 'core.category' table
type CoreCategoryTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

// CoreCategory is the schema definition for core.category
var CoreCategory = CoreCategoryTable{
	Table:       "core.category",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// CorePostTable represents the 'core.post' table
type CorePostTable struct {
	Table         string
	ID            string
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	CoverImageURL string
	CategoryID    string
	AuthorID      string
	Status        string
	PublishedAt   string
	CreatedAt     string
	UpdatedAt     string

	// SlugKey is the unique constraint on slug.
	SlugKey string
}

// CorePost is the schema definition for core.post
var CorePost = CorePostTable{
	Table:         "core.post",
	ID:            "id",
	Title:         "title",
	Slug:          "slug",
	Excerpt:       "excerpt",
	Content:       "content",
	CoverImageURL: "coverimageurl",
	CategoryID:    "categoryid",
	AuthorID:      "authorid",
	Status:        "status",
	PublishedAt:   "publishedat",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	SlugKey:       "post_slug_key",
}

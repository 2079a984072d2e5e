package schema

// CoreComicTable represents the 'core.comic' table
type CoreComicTable struct {
	Table           string
	ID              string
	Slug            string
	Title           string
	Caption         string
	Images          string
	Tags            string
	HappenedOnDate  string
	PostedTimestamp string
	UploadDate      string
	ScrollStyle     string
	Integrations    string
}

// CoreComic is the schema definition for core.comic
var CoreComic = CoreComicTable{
	Table:           "core.comic",
	ID:              "id",
	Slug:            "slug",
	Title:           "title",
	Caption:         "caption",
	Images:          "images",
	Tags:            "tags",
	HappenedOnDate:  "happenedondate",
	PostedTimestamp: "postedtimestamp",
	UploadDate:      "uploaddate",
	ScrollStyle:     "scrollstyle",
	Integrations:    "integrations",
}

// UniqueSlugConstraint is the unique index enforcing global slug uniqueness.
// The ingestion pipeline keys its conflict-retry logic on this name.
const UniqueSlugConstraint = "comic_slug_key"

func (t CoreComicTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Title, t.Caption, t.Images, t.Tags,
		t.HappenedOnDate, t.PostedTimestamp, t.UploadDate,
		t.ScrollStyle, t.Integrations,
	}
}

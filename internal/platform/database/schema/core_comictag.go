package schema

// CoreComicTagTable represents the 'core.comic_tag' table.
//
// Each normalized tag on a comic is denormalized into its own row here,
// carrying the comic's postedtimestamp so tag-scoped feeds can be served
// from the (tag, postedtimestamp DESC) index without joining core.comic
// for ordering.
type CoreComicTagTable struct {
	Table           string
	Tag             string
	ComicID         string
	PostedTimestamp string
}

// CoreComicTag is the schema definition for core.comic_tag
var CoreComicTag = CoreComicTagTable{
	Table:           "core.comic_tag",
	Tag:             "tag",
	ComicID:         "comicid",
	PostedTimestamp: "postedtimestamp",
}

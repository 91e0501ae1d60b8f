package console

// indexParams are the URL-held view state: active tab, search text, and page
// number. They survive reloads and are shareable as links.
type indexParams struct {
	Tab  string `query:"tab" default:"users" validate:"oneof=users roles"`
	Q    string `query:"q" mod:"trim"`
	Page int    `query:"page" default:"1" validate:"min=1"`
}

package schemas

// -- Xano Metadata API Wire Types --
//
// Subset of the Xano metadata API surface the wizard touches: workspace and
// table enumeration, paged table content, API group and API endpoint
// management. Field names follow the metadata API JSON.

// Workspace is one Xano workspace visible to the access token.
type Workspace struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Table is one database table inside a workspace.
type Table struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Auth        bool   `json:"auth,omitempty"`
}

// ContentPage is one page of table rows as returned by the table content
// endpoint.
type ContentPage struct {
	Items    []Record `json:"items"`
	CurPage  int      `json:"curPage"`
	NextPage *int     `json:"nextPage"`
}

// APIGroup is a container for deployed API endpoints.
type APIGroup struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Canonical   string `json:"canonical,omitempty"`
}

// API is one endpoint inside an API group. Script carries the generated
// endpoint logic; for the visualizer page endpoint it embeds the HTML
// document as a literal string.
type API struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Verb        string `json:"verb"`
	Script      string `json:"script,omitempty"`
}

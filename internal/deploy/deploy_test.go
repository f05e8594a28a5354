package deploy

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
)

// fakeMetadataAPI is an in-memory MetadataAPI recording what the deployer
// did.
type fakeMetadataAPI struct {
	groups  []schemas.APIGroup
	apis    map[int][]schemas.API // group ID -> endpoints
	nextID  int
	created []string
	updated []string
}

var _ MetadataAPI = (*fakeMetadataAPI)(nil)

func newFakeMetadataAPI() *fakeMetadataAPI {
	return &fakeMetadataAPI{apis: map[int][]schemas.API{}, nextID: 100}
}

func (f *fakeMetadataAPI) ListAPIGroups(ctx context.Context, workspaceID int) ([]schemas.APIGroup, error) {
	return f.groups, nil
}

func (f *fakeMetadataAPI) CreateAPIGroup(ctx context.Context, workspaceID int, group schemas.APIGroup) (schemas.APIGroup, error) {
	group.ID = f.nextID
	f.nextID++
	f.groups = append(f.groups, group)
	return group, nil
}

func (f *fakeMetadataAPI) ListAPIs(ctx context.Context, workspaceID, groupID int) ([]schemas.API, error) {
	return f.apis[groupID], nil
}

func (f *fakeMetadataAPI) CreateAPI(ctx context.Context, workspaceID, groupID int, api schemas.API) (schemas.API, error) {
	api.ID = f.nextID
	f.nextID++
	f.apis[groupID] = append(f.apis[groupID], api)
	f.created = append(f.created, api.Name)
	return api, nil
}

func (f *fakeMetadataAPI) UpdateAPI(ctx context.Context, workspaceID, groupID int, api schemas.API) (schemas.API, error) {
	for i, existing := range f.apis[groupID] {
		if existing.ID == api.ID {
			f.apis[groupID][i] = api
			f.updated = append(f.updated, api.Name)
			return api, nil
		}
	}
	f.apis[groupID] = append(f.apis[groupID], api)
	f.updated = append(f.updated, api.Name)
	return api, nil
}

func TestDeployCreatesGroupAndEndpoints(t *testing.T) {
	api := newFakeMetadataAPI()
	d := NewDeployer(api, nil)

	res, err := d.Deploy(context.Background(), 1, Options{Tables: []string{"users", "orders"}})
	require.NoError(t, err)

	assert.True(t, res.GroupCreated)
	assert.True(t, res.DataCreated)
	assert.True(t, res.PageCreated)
	assert.Equal(t, []string{"graph-data", "visualizer"}, api.created)
	assert.Empty(t, api.updated)

	require.Len(t, api.groups, 1)
	assert.Equal(t, "Database Visualizer", api.groups[0].Name)
}

func TestDeployUpdatesExistingEndpoints(t *testing.T) {
	api := newFakeMetadataAPI()
	api.groups = []schemas.APIGroup{{ID: 7, Name: "Database Visualizer"}}
	api.apis[7] = []schemas.API{
		{ID: 70, Name: "graph-data", Verb: "GET", Script: "old"},
	}
	d := NewDeployer(api, nil)

	res, err := d.Deploy(context.Background(), 1, Options{Tables: []string{"users"}})
	require.NoError(t, err)

	assert.False(t, res.GroupCreated)
	assert.Equal(t, 7, res.GroupID)
	// graph-data existed, so it is updated in place with its ID preserved.
	assert.False(t, res.DataCreated)
	assert.True(t, res.PageCreated)
	assert.Equal(t, []string{"graph-data"}, api.updated)
	assert.Equal(t, []string{"visualizer"}, api.created)
	assert.Equal(t, 70, api.apis[7][0].ID)
	assert.NotEqual(t, "old", api.apis[7][0].Script)
}

func TestDeployHonorsCustomNames(t *testing.T) {
	api := newFakeMetadataAPI()
	d := NewDeployer(api, nil)

	_, err := d.Deploy(context.Background(), 1, Options{
		GroupName:    "Viz",
		DataEndpoint: "data",
		PageEndpoint: "page",
		Tables:       []string{"users"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Viz", api.groups[0].Name)
	assert.Equal(t, []string{"data", "page"}, api.created)
}

func TestDataEndpointScriptKeepsSelectionOrder(t *testing.T) {
	script := DataEndpointScript([]string{"zebras", "apples", "line items"})

	zi := strings.Index(script, "$payload.zebras")
	ai := strings.Index(script, "$payload.apples")
	li := strings.Index(script, "$payload.line_items")
	require.NotEqual(t, -1, zi)
	require.NotEqual(t, -1, ai)
	require.NotEqual(t, -1, li)
	assert.Less(t, zi, ai)
	assert.Less(t, ai, li)

	// The query uses the real table name even when the identifier is
	// normalized.
	assert.Contains(t, script, `db.query("line items")`)
	assert.Contains(t, script, "return $payload")
}

func TestRenderPageInterpolatesConfig(t *testing.T) {
	page, err := RenderPage(PageConfig{
		Title:   "My Data",
		DataURL: "./graph-data",
		Palette: []string{"#111111", "#222222"},
	})
	require.NoError(t, err)

	assert.Contains(t, page, "<title>My Data</title>")
	assert.Contains(t, page, `"./graph-data"`)
	assert.Contains(t, page, `["#111111","#222222"]`)
	// No unexpanded template slots survive rendering.
	assert.NotContains(t, page, "{{")
}

func TestRenderPageDefaultPalette(t *testing.T) {
	page, err := RenderPage(PageConfig{Title: "t", DataURL: "./d"})
	require.NoError(t, err)
	assert.Contains(t, page, "#4fc3f7")
}

func TestPageEndpointScriptEscapesLiteral(t *testing.T) {
	script := PageEndpointScript("a`b${c}\\d")

	assert.Contains(t, script, "text/html")
	assert.Contains(t, script, "a\\`b\\${c}\\\\d")
}

func TestScriptIdent(t *testing.T) {
	assert.Equal(t, "line_items", scriptIdent("line items"))
	assert.Equal(t, "users", scriptIdent("users"))
	assert.Equal(t, "a_b_c", scriptIdent("a-b.c"))
}

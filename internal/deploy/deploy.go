// Package deploy generates the two visualizer endpoints (the graph-data
// JSON endpoint and the static HTML page) and reconciles them into a Xano
// API group: endpoints are created when absent and updated in place when an
// endpoint of the same name already exists.
package deploy

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
)

//go:embed assets/visualizer.html.tmpl
var visualizerTmpl string

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MetadataAPI is the slice of the Xano client the deployer needs.
type MetadataAPI interface {
	ListAPIGroups(ctx context.Context, workspaceID int) ([]schemas.APIGroup, error)
	CreateAPIGroup(ctx context.Context, workspaceID int, group schemas.APIGroup) (schemas.APIGroup, error)
	ListAPIs(ctx context.Context, workspaceID, groupID int) ([]schemas.API, error)
	CreateAPI(ctx context.Context, workspaceID, groupID int, api schemas.API) (schemas.API, error)
	UpdateAPI(ctx context.Context, workspaceID, groupID int, api schemas.API) (schemas.API, error)
}

// Options configures one deployment.
type Options struct {
	GroupName    string   // API group holding both endpoints
	DataEndpoint string   // name of the JSON data endpoint
	PageEndpoint string   // name of the HTML page endpoint
	Title        string   // page title
	Palette      []string // table color cycle baked into the page
	Tables       []string // selected table names, selection order preserved
}

// Defaults fills unset options.
func (o *Options) Defaults() {
	if o.GroupName == "" {
		o.GroupName = "Database Visualizer"
	}
	if o.DataEndpoint == "" {
		o.DataEndpoint = "graph-data"
	}
	if o.PageEndpoint == "" {
		o.PageEndpoint = "visualizer"
	}
	if o.Title == "" {
		o.Title = "Database Visualizer"
	}
}

// Result reports what a deployment touched.
type Result struct {
	GroupID      int
	GroupCreated bool
	DataCreated  bool // false means updated in place
	PageCreated  bool
}

// Deployer reconciles the generated endpoints against a workspace.
type Deployer struct {
	api MetadataAPI
	log *zap.Logger
}

// NewDeployer returns a Deployer. A nil logger is replaced with a no-op one.
func NewDeployer(api MetadataAPI, logger *zap.Logger) *Deployer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deployer{api: api, log: logger.Named("Deployer")}
}

// Deploy ensures the API group exists and upserts both endpoints.
func (d *Deployer) Deploy(ctx context.Context, workspaceID int, opts Options) (Result, error) {
	opts.Defaults()
	var res Result

	group, created, err := d.ensureGroup(ctx, workspaceID, opts.GroupName)
	if err != nil {
		return res, err
	}
	res.GroupID = group.ID
	res.GroupCreated = created

	page, err := RenderPage(PageConfig{
		Title:   opts.Title,
		DataURL: "./" + opts.DataEndpoint,
		Palette: opts.Palette,
	})
	if err != nil {
		return res, err
	}

	endpoints := []schemas.API{
		{
			Name:        opts.DataEndpoint,
			Verb:        "GET",
			Description: "Graph data for the database visualizer (generated)",
			Script:      DataEndpointScript(opts.Tables),
		},
		{
			Name:        opts.PageEndpoint,
			Verb:        "GET",
			Description: "Database visualizer page (generated)",
			Script:      PageEndpointScript(page),
		},
	}

	existing, err := d.api.ListAPIs(ctx, workspaceID, group.ID)
	if err != nil {
		return res, fmt.Errorf("deploy: list endpoints: %w", err)
	}
	byName := make(map[string]schemas.API, len(existing))
	for _, api := range existing {
		byName[api.Name] = api
	}

	for i, ep := range endpoints {
		created := false
		if prev, ok := byName[ep.Name]; ok {
			ep.ID = prev.ID
			if _, err := d.api.UpdateAPI(ctx, workspaceID, group.ID, ep); err != nil {
				return res, fmt.Errorf("deploy: update %q: %w", ep.Name, err)
			}
		} else {
			if _, err := d.api.CreateAPI(ctx, workspaceID, group.ID, ep); err != nil {
				return res, fmt.Errorf("deploy: create %q: %w", ep.Name, err)
			}
			created = true
		}
		if i == 0 {
			res.DataCreated = created
		} else {
			res.PageCreated = created
		}
		d.log.Info("Endpoint deployed",
			zap.String("name", ep.Name),
			zap.Bool("created", created),
		)
	}
	return res, nil
}

func (d *Deployer) ensureGroup(ctx context.Context, workspaceID int, name string) (schemas.APIGroup, bool, error) {
	groups, err := d.api.ListAPIGroups(ctx, workspaceID)
	if err != nil {
		return schemas.APIGroup{}, false, fmt.Errorf("deploy: list api groups: %w", err)
	}
	for _, g := range groups {
		if g.Name == name {
			return g, false, nil
		}
	}
	created, err := d.api.CreateAPIGroup(ctx, workspaceID, schemas.APIGroup{
		Name:        name,
		Description: "Created by xano-db-visualizer",
	})
	if err != nil {
		return schemas.APIGroup{}, false, fmt.Errorf("deploy: create api group: %w", err)
	}
	return created, true, nil
}

// PageConfig is what gets interpolated into the visualizer page template.
type PageConfig struct {
	Title   string
	DataURL string
	Palette []string
}

// RenderPage renders the embedded visualizer page with the given config.
func RenderPage(cfg PageConfig) (string, error) {
	if len(cfg.Palette) == 0 {
		cfg.Palette = defaultPalette
	}
	paletteJSON, err := json.Marshal(cfg.Palette)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New("visualizer").Parse(visualizerTmpl)
	if err != nil {
		return "", fmt.Errorf("deploy: parse page template: %w", err)
	}
	var out strings.Builder
	err = tmpl.Execute(&out, struct {
		Title       string
		DataURL     string
		PaletteJSON string
	}{cfg.Title, cfg.DataURL, string(paletteJSON)})
	if err != nil {
		return "", fmt.Errorf("deploy: render page: %w", err)
	}
	return out.String(), nil
}

// defaultPalette mirrors the table color cycle of the native renderer.
var defaultPalette = []string{
	"#4fc3f7", "#81c784", "#ffb74d", "#e57373", "#ba68c8", "#4db6ac",
	"#f06292", "#aed581", "#ffd54f", "#7986cb", "#a1887f", "#90a4ae",
}

// DataEndpointScript generates the endpoint script returning every selected
// table's records as one JSON object, keys in selection order. Downstream
// foreign-key resolution is first-match-wins in key order, so the order here
// is contractual.
func DataEndpointScript(tables []string) string {
	var b strings.Builder
	b.WriteString("// generated by xano-db-visualizer; edits will be overwritten\n")
	b.WriteString("var $payload = {}\n")
	for _, t := range tables {
		fmt.Fprintf(&b, "$payload.%s = db.query(%q).all()\n", scriptIdent(t), t)
	}
	b.WriteString("return $payload\n")
	return b.String()
}

// PageEndpointScript wraps the rendered HTML page in an endpoint script that
// serves it with the right content type.
func PageEndpointScript(page string) string {
	var b strings.Builder
	b.WriteString("// generated by xano-db-visualizer; edits will be overwritten\n")
	b.WriteString("response.header(\"Content-Type\", \"text/html; charset=utf-8\")\n")
	fmt.Fprintf(&b, "return `%s`\n", escapeScriptLiteral(page))
	return b.String()
}

// escapeScriptLiteral escapes a document for embedding inside a backtick
// template literal in the generated script.
func escapeScriptLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "`", "\\`")
	s = strings.ReplaceAll(s, "${", "\\${")
	return s
}

// scriptIdent normalizes a table name into a script identifier.
func scriptIdent(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

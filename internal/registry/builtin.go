package registry

// Builtin returns the registry pre-loaded with the standard palette.
func Builtin() *Registry {
	r := New()
	for _, def := range builtinDefs {
		r.Register(def)
	}
	return r
}

var builtinDefs = []Definition{
	{
		Type: "heading", Name: "Heading", Icon: "type", Category: "content",
		DefaultProps:    map[string]any{"text": "Heading", "level": 2},
		DefaultGridSpan: 12,
	},
	{
		Type: "text", Name: "Text", Icon: "align-left", Category: "content",
		DefaultProps:    map[string]any{"text": ""},
		DefaultGridSpan: 12,
	},
	{
		Type: "image", Name: "Image", Icon: "image", Category: "content",
		DefaultProps:    map[string]any{"src": "", "alt": "", "fit": "contain"},
		DefaultGridSpan: 6,
	},
	{
		Type: "divider", Name: "Divider", Icon: "minus", Category: "content",
		DefaultProps:    map[string]any{"style": "solid"},
		DefaultGridSpan: 12,
	},
	{
		Type: "table", Name: "Table", Icon: "table", Category: "data",
		DefaultProps:    map[string]any{"pageSize": 20, "striped": true},
		DefaultGridSpan: 12,
	},
	{
		Type: "chart", Name: "Chart", Icon: "bar-chart", Category: "data",
		DefaultProps:    map[string]any{"chartType": "bar", "legend": true},
		DefaultGridSpan: 6,
	},
	{
		Type: "metric", Name: "Metric", Icon: "hash", Category: "data",
		DefaultProps:    map[string]any{"label": "Metric", "format": "number"},
		DefaultGridSpan: 3,
	},
	{
		Type: "text-input", Name: "Text Input", Icon: "edit-3", Category: "form",
		DefaultProps:    map[string]any{"label": "", "placeholder": ""},
		DefaultGridSpan: 6,
	},
	{
		Type: "select", Name: "Select", Icon: "chevron-down", Category: "form",
		DefaultProps:    map[string]any{"label": "", "options": []any{}},
		DefaultGridSpan: 6,
	},
	{
		Type: "button", Name: "Button", Icon: "square", Category: "form",
		DefaultProps:    map[string]any{"label": "Button", "variant": "primary"},
		DefaultGridSpan: 3,
	},
}

package design

// ToolInfo is the static display data for one component kind.
type ToolInfo struct {
	Kind     ComponentKind
	LabelKey string // key into labels.Table.Components
	Icon     string
	Glyph    string // single-cell terminal rendering
	Color    string // hex fill colour for the cell
}

// catalog is indexed by kind; the array length keeps it exhaustive.
var catalog = [kindCount]ToolInfo{
	Empty: {Kind: Empty, LabelKey: "EMPTY", Icon: "trash", Glyph: "·", Color: "#18181b"},
	CPUP:  {Kind: CPUP, LabelKey: "CPU_P", Icon: "cpu", Glyph: "P", Color: "#ef4444"},
	CPUE:  {Kind: CPUE, LabelKey: "CPU_E", Icon: "zap", Glyph: "E", Color: "#60a5fa"},
	GPU:   {Kind: GPU, LabelKey: "GPU", Icon: "monitor", Glyph: "G", Color: "#22c55e"},
	NPU:   {Kind: NPU, LabelKey: "NPU", Icon: "brain", Glyph: "N", Color: "#a855f7"},
	Smoke: {Kind: Smoke, LabelKey: "SMOKE", Icon: "cloud-fog", Glyph: "S", Color: "#9ca3af"},
}

// displayOrder is the palette order shown to users: paintable parts first, eraser last.
var displayOrder = [kindCount]ComponentKind{CPUP, CPUE, GPU, NPU, Smoke, Empty}

// Catalog returns the palette entries in display order.
func Catalog() []ToolInfo {
	out := make([]ToolInfo, 0, kindCount)
	for _, k := range displayOrder {
		out = append(out, catalog[k])
	}
	return out
}

// Info returns the catalog entry for k. Unknown kinds map to the EMPTY entry.
func Info(k ComponentKind) ToolInfo {
	if !k.Valid() {
		return catalog[Empty]
	}
	return catalog[k]
}

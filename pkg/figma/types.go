package figma

// FileResponse represents the response from the Figma file API endpoint.
// Only the parts needed to locate text nodes and name their styles are decoded.
type FileResponse struct {
	Name          string           `json:"name"`
	LastModified  string           `json:"lastModified"`
	Version       string           `json:"version"`
	Document      Node             `json:"document"`
	Styles        map[string]Style `json:"styles"`
	SchemaVersion int              `json:"schemaVersion"`
}

// NodesResponse represents the response from the Figma nodes API endpoint when fetching specific nodes.
// It contains file metadata and a map of node IDs to their corresponding NodeData.
// A requested node that does not exist maps to nil.
type NodesResponse struct {
	Name         string               `json:"name"`
	LastModified string               `json:"lastModified"`
	Version      string               `json:"version"`
	Nodes        map[string]*NodeData `json:"nodes"`
}

// NodeData wraps a node with the styles it references.
type NodeData struct {
	Document Node             `json:"document"`
	Styles   map[string]Style `json:"styles,omitempty"`
}

// Style represents a published Figma style with its basic properties.
// Text styles have the TEXT style type.
type Style struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StyleType   string `json:"styleType"`
}

// Node represents a single element in the Figma document tree hierarchy.
type Node struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Type                string     `json:"type"`
	Children            []Node     `json:"children,omitempty"`
	Characters          string     `json:"characters,omitempty"`
	Style               *TypeStyle `json:"style,omitempty"`
	AbsoluteBoundingBox *Rectangle `json:"absoluteBoundingBox,omitempty"`

	// Styles maps a style kind ("text", "fill", ...) to a key of the
	// file's Styles map.
	Styles map[string]string `json:"styles,omitempty"`

	// CharacterStyleOverrides holds one override table index per character.
	// Index 0 and characters past the end of the slice use Style.
	CharacterStyleOverrides []int                    `json:"characterStyleOverrides,omitempty"`
	StyleOverrideTable      map[string]StyleOverride `json:"styleOverrideTable,omitempty"`
}

// Line height units of the REST API.
const (
	LineHeightPixels          = "PIXELS"
	LineHeightFontSizePercent = "FONT_SIZE_%"
	LineHeightIntrinsic       = "INTRINSIC_%"
)

// TypeStyle represents the text styling properties of a Figma text node.
// LetterSpacing is in pixels. LineHeightPx is always resolved by the API,
// including for intrinsic (automatic) line heights.
type TypeStyle struct {
	FontFamily                string  `json:"fontFamily"`
	FontPostScriptName        string  `json:"fontPostScriptName"`
	FontWeight                float64 `json:"fontWeight"`
	FontSize                  float64 `json:"fontSize"`
	LetterSpacing             float64 `json:"letterSpacing"`
	LineHeightPx              float64 `json:"lineHeightPx"`
	LineHeightPercentFontSize float64 `json:"lineHeightPercentFontSize"`
	LineHeightUnit            string  `json:"lineHeightUnit"`
	TextAlignHorizontal       string  `json:"textAlignHorizontal"`
}

// StyleOverride is an entry of a text node's style override table. Only
// the overridden properties are present.
type StyleOverride struct {
	FontFamily                *string  `json:"fontFamily,omitempty"`
	FontWeight                *float64 `json:"fontWeight,omitempty"`
	FontSize                  *float64 `json:"fontSize,omitempty"`
	LetterSpacing             *float64 `json:"letterSpacing,omitempty"`
	LineHeightPx              *float64 `json:"lineHeightPx,omitempty"`
	LineHeightPercentFontSize *float64 `json:"lineHeightPercentFontSize,omitempty"`
	LineHeightUnit            *string  `json:"lineHeightUnit,omitempty"`
	TextAlignHorizontal       *string  `json:"textAlignHorizontal,omitempty"`
}

// Rectangle represents a bounding box with position (X, Y) and dimensions (Width, Height).
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

package figmatextstyle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kataras/figma-textstyle/pkg/extractor"
	"github.com/kataras/figma-textstyle/pkg/figma"
	"github.com/kataras/figma-textstyle/pkg/formatter"
	"github.com/kataras/figma-textstyle/pkg/host"
	"github.com/kataras/figma-textstyle/pkg/logging"
	"github.com/kataras/figma-textstyle/pkg/settings"
	"github.com/kataras/figma-textstyle/pkg/template"
)

// Version of the exporter.
const Version = "0.1.0"

var (
	// ErrNoSelection is returned when the selection holds no element.
	ErrNoSelection = errors.New("no selection")
	// ErrNoText is returned when the selection holds no text element.
	ErrNoText = errors.New("no text element selected")
)

// Logger receives progress messages. A nil Logger means silent operation.
type Logger = logging.Logger

// Options configures the export.
type Options struct {
	AccessToken string
	FileURL     string   // Figma file URL
	NodeIDs     []string // empty = node IDs of the URL, else entire file
	All         bool     // export every text element instead of the first one

	Settings settings.Settings // zero value = built-in defaults
	Aliases  settings.AliasTable

	Client *figma.Client // nil = figma.NewClient(AccessToken)
	Logger Logger        // nil = no logging
}

// Result contains the export output.
type Result struct {
	FileKey  string
	FileName string            // Figma file name
	Entries  []formatter.Entry // one per exported text element, in document order
	Snippet  string            // snippet of the first entry
	Markdown string            // formatted markdown report of all entries
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

// Run executes the export pipeline and returns the result.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Settings == (settings.Settings{}) {
		opts.Settings = settings.Builtin().Settings
	}
	opts.Settings = opts.Settings.Normalize()

	opts.logInfo("Extracting file key from URL...")
	fileKey, err := figma.ExtractFileKey(opts.FileURL)
	if err != nil {
		return nil, fmt.Errorf("extract file key: %w", err)
	}
	opts.logInfo("File key: %s", fileKey)

	nodeIDs, err := ResolveNodeIDs(opts.FileURL, opts.NodeIDs)
	if err != nil {
		return nil, err
	}
	if len(nodeIDs) > 0 {
		opts.logInfo("Selecting %d node(s)", len(nodeIDs))
	} else {
		opts.logInfo("No node IDs found, will select the entire file")
	}

	client := opts.Client
	if client == nil {
		if opts.AccessToken == "" {
			return nil, errors.New("missing Figma access token")
		}
		client = figma.NewClient(opts.AccessToken)
	}

	opts.logInfo("Fetching nodes from Figma...")
	sel := figma.NewSelection(client, fileKey, nodeIDs)
	sel.Logger = opts.Logger
	nodes, err := sel.Selection(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch selection: %w", err)
	}
	if len(nodes) == 0 {
		return nil, ErrNoSelection
	}

	texts := textNodes(nodes, opts.All)
	if len(texts) == 0 {
		return nil, ErrNoText
	}
	opts.logInfo("File: %s, %d text element(s)", sel.FileName(), len(texts))

	ext := &extractor.Extractor{Measurer: figma.IntrinsicMeasurer{}, Logger: opts.Logger}
	renderOpts := opts.Settings.RenderOptions()

	result := &Result{FileKey: fileKey, FileName: sel.FileName()}
	for _, tn := range texts {
		style := ext.Extract(ctx, tn, opts.Settings.BasePixelSize)
		entry := formatter.Entry{
			Node:    tn.Name(),
			Style:   style,
			Snippet: template.Render(opts.Settings.Template, style, opts.Aliases, renderOpts),
		}
		if named, ok := tn.(interface{ StyleName() string }); ok {
			entry.StyleName = named.StyleName()
		}
		result.Entries = append(result.Entries, entry)
	}

	result.Snippet = result.Entries[0].Snippet
	result.Markdown = formatter.ToMarkdown(result.FileName, result.Entries, opts.Aliases)
	return result, nil
}

func textNodes(nodes []host.Node, all bool) []host.TextNode {
	if !all {
		if tn := host.FirstText(nodes); tn != nil {
			return []host.TextNode{tn}
		}
		return nil
	}

	var out []host.TextNode
	seen := make(map[string]struct{})
	for _, n := range nodes {
		tn, ok := n.(host.TextNode)
		if !ok || n.Type() != host.NodeTypeText {
			continue
		}
		if _, dup := seen[n.ID()]; dup {
			continue
		}
		seen[n.ID()] = struct{}{}
		out = append(out, tn)
	}
	return out
}

// ResolveNodeIDs returns explicit when it is not empty, the node IDs of the
// URL otherwise.
func ResolveNodeIDs(fileURL string, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}
	ids, err := figma.ExtractNodeIDs(fileURL)
	if err != nil {
		return nil, fmt.Errorf("extract node IDs from URL: %w", err)
	}
	return ids, nil
}

// ParseNodeIDs parses a comma-separated string of node IDs and returns a slice.
// URL style IDs (1-2) are converted to API style (1:2).
func ParseNodeIDs(nodeIDsStr string) []string {
	parts := strings.Split(nodeIDsStr, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, strings.ReplaceAll(trimmed, "-", ":"))
		}
	}

	return result
}

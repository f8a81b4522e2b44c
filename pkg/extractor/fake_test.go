package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/kataras/figma-textstyle/pkg/host"
)

// fakeText is an in-memory text element. Unset pointer attributes read as mixed.
type fakeText struct {
	name        string
	size        *float64
	weight      *float64
	family      *string
	spacing     *host.LetterSpacing
	lineHeight  *host.LineHeight
	align       *host.TextAlign
	missingFont bool
}

func num(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func (f *fakeText) ID() string   { return "1:1" }
func (f *fakeText) Name() string { return f.name }
func (f *fakeText) Type() string { return host.NodeTypeText }

func (f *fakeText) FontSize() (float64, bool) {
	if f.size == nil {
		return 0, false
	}
	return *f.size, true
}

func (f *fakeText) FontWeight() (float64, bool) {
	if f.weight == nil {
		return 0, false
	}
	return *f.weight, true
}

func (f *fakeText) FontFamily() (string, bool) {
	if f.family == nil {
		return "", false
	}
	return *f.family, true
}

func (f *fakeText) LetterSpacing() (host.LetterSpacing, bool) {
	if f.spacing == nil {
		return host.LetterSpacing{}, false
	}
	return *f.spacing, true
}

func (f *fakeText) LineHeight() (host.LineHeight, bool) {
	if f.lineHeight == nil {
		return host.LineHeight{}, false
	}
	return *f.lineHeight, true
}

func (f *fakeText) TextAlignHorizontal() (host.TextAlign, bool) {
	if f.align == nil {
		return "", false
	}
	return *f.align, true
}

func (f *fakeText) HasMissingFont() bool { return f.missingFont }

// page is a container recording the children it receives.
type page struct {
	name     string
	children []host.Node
	journal  *[]string
	failOn   map[string]error
}

func (p *page) IndexOf(child host.Node) int {
	for i, c := range p.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (p *page) remove(child host.Node) {
	if i := p.IndexOf(child); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
}

func (p *page) InsertChild(index int, child host.Node) error {
	op := fmt.Sprintf("insert %s@%d", p.name, index)
	if err := p.failOn[op]; err != nil {
		return err
	}
	*p.journal = append(*p.journal, op)
	if mt, ok := child.(*mutableText); ok && mt.parent != nil {
		mt.parent.remove(child)
		mt.parent = p
	}
	if index > len(p.children) {
		index = len(p.children)
	}
	p.children = append(p.children[:index], append([]host.Node{child}, p.children[index:]...)...)
	return nil
}

func (p *page) AppendChild(child host.Node) error {
	op := "append " + p.name
	if err := p.failOn[op]; err != nil {
		return err
	}
	*p.journal = append(*p.journal, op)
	if mt, ok := child.(*mutableText); ok && mt.parent != nil {
		mt.parent.remove(child)
		mt.parent = p
	}
	p.children = append(p.children, child)
	return nil
}

// mutableText lays text out as lineHeight per line when auto-sized.
type mutableText struct {
	fakeText

	parent      *page
	x, y        float64
	w, h        float64
	chars       string
	autoResize  host.AutoResize
	trim        host.LeadingTrim
	lineHeightP float64 // natural single line height in px

	journal *[]string
	failOn  map[string]error
}

func (m *mutableText) record(op string) error {
	if err := m.failOn[op]; err != nil {
		return err
	}
	*m.journal = append(*m.journal, op)
	return nil
}

func (m *mutableText) LoadFont(context.Context) error { return m.record("load font") }

func (m *mutableText) Parent() host.Container {
	if m.parent == nil {
		return nil
	}
	return m.parent
}

func (m *mutableText) Position() (float64, float64) { return m.x, m.y }

func (m *mutableText) SetPosition(x, y float64) error {
	if err := m.record(fmt.Sprintf("position %g,%g", x, y)); err != nil {
		return err
	}
	m.x, m.y = x, y
	return nil
}

func (m *mutableText) Size() (float64, float64) {
	if m.autoResize == host.AutoResizeWidthAndHeight || m.autoResize == host.AutoResizeHeight {
		lines := strings.Count(m.chars, "\n") + 1
		return m.w, m.lineHeightP * float64(lines)
	}
	return m.w, m.h
}

func (m *mutableText) Resize(w, h float64) error {
	if err := m.record(fmt.Sprintf("resize %g,%g", w, h)); err != nil {
		return err
	}
	m.w, m.h = w, h
	return nil
}

func (m *mutableText) Characters() string { return m.chars }

func (m *mutableText) SetCharacters(s string) error {
	if err := m.record(fmt.Sprintf("characters %q", s)); err != nil {
		return err
	}
	m.chars = s
	return nil
}

func (m *mutableText) AutoResize() host.AutoResize { return m.autoResize }

func (m *mutableText) SetAutoResize(mode host.AutoResize) error {
	if err := m.record("auto-resize " + string(mode)); err != nil {
		return err
	}
	m.autoResize = mode
	return nil
}

func (m *mutableText) LeadingTrim() (host.LeadingTrim, bool) { return m.trim, true }

func (m *mutableText) SetLeadingTrim(mode host.LeadingTrim) error {
	if err := m.record("trim " + string(mode)); err != nil {
		return err
	}
	m.trim = mode
	return nil
}

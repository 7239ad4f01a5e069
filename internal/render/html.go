package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/junsooki/asciicam/internal/glyph"
	"github.com/junsooki/asciicam/internal/surface"
)

// FrameClass is the class attribute of the generated container element.
const FrameClass = "ascii-frame"

// HTML renders rows as text nodes separated by <br/> inside a single <div>
// and replaces the target markup in one write.
type HTML struct {
	target TextTarget
	root   *html.Node
}

// NewHTML creates an HTML renderer writing markup into target.
func NewHTML(target TextTarget) *HTML {
	return &HTML{target: target}
}

func (r *HTML) Type() Type {
	return TypeHTML
}

func (r *HTML) Render(grid surface.PixelGrid, ramp *glyph.Ramp) error {
	root := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "class", Val: FrameClass}},
	}
	var row strings.Builder
	for _, cells := range grid.Rows {
		row.Reset()
		for _, s := range cells {
			row.WriteRune(ramp.CharFor(s.Luminance()))
		}
		root.AppendChild(&html.Node{Type: html.TextNode, Data: row.String()})
		root.AppendChild(&html.Node{Type: html.ElementNode, Data: "br", DataAtom: atom.Br})
	}

	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		return err
	}
	r.root = root
	r.target.Replace(b.String())
	return nil
}

func (r *HTML) Clean() error {
	r.root = nil
	r.target.Replace("")
	return nil
}

// Snapshot returns the visible text of the last frame, with line breaks
// where the markup has <br/>.
func (r *HTML) Snapshot() (Snapshot, error) {
	var b strings.Builder
	if r.root != nil {
		collectText(r.root, &b)
	}
	return Snapshot{Type: TypeHTML, Kind: SnapshotText, Data: plainText(b.String())}, nil
}

func collectText(n *html.Node, b *strings.Builder) {
	switch {
	case n.Type == html.TextNode:
		b.WriteString(n.Data)
	case n.Type == html.ElementNode && n.DataAtom == atom.Br:
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// VisibleText extracts the text a browser would show for markup produced by
// the HTML renderer: text nodes, with a newline for every <br>.
func VisibleText(markup string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); atom.Lookup(name) == atom.Br {
				b.WriteByte('\n')
			}
		}
	}
}

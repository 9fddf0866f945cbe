package export

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/guinetik/netstats/pkg/analysis"
)

// GraphSnapshotOptions controls graph snapshot export behaviour.
type GraphSnapshotOptions struct {
	Path   string // Output path; format inferred from extension when Format empty
	Format string // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title  string // Optional title rendered in the summary block
	Result *analysis.Result
	Edges  []analysis.Edge
}

// SaveGraphSnapshot renders a static snapshot of the analysed graph. Nodes
// are grouped on a ring per Louvain community, coloured by community and
// sized by degree, so the communities read at a glance without an
// interactive viewer.
func SaveGraphSnapshot(opts GraphSnapshotOptions) error {
	if opts.Result == nil || len(opts.Result.Nodes) == 0 {
		return fmt.Errorf("no nodes to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	layout := buildLayout(opts)

	switch format {
	case "svg":
		return renderSVG(opts, layout)
	default:
		return renderPNG(opts, layout)
	}
}

// --- layout computation ----------------------------------------------------

type layoutNode struct {
	ID        string
	X, Y      float64
	Radius    float64
	Community int
}

type layoutEdge struct {
	From, To int // indices into layout nodes
	Weight   float64
}

type snapshotLayout struct {
	Nodes  []layoutNode
	Edges  []layoutEdge
	Width  int
	Height int
}

const (
	snapshotPadding = 48.0
	snapshotHeader  = 56.0
	minNodeRadius   = 5.0
	maxNodeRadius   = 16.0
)

// buildLayout places one ring of communities, each community's members on a
// smaller ring around the community centre. Communities and members are
// ordered by label and node order, so layout is deterministic.
func buildLayout(opts GraphSnapshotOptions) snapshotLayout {
	records := opts.Result.Nodes

	byCommunity := make(map[int][]int)
	for i, rec := range records {
		byCommunity[rec.Community] = append(byCommunity[rec.Community], i)
	}
	labels := make([]int, 0, len(byCommunity))
	for c := range byCommunity {
		labels = append(labels, c)
	}
	sort.Ints(labels)

	maxDegree := 1
	for _, rec := range records {
		if rec.Degree > maxDegree {
			maxDegree = rec.Degree
		}
	}

	// Size the canvas to the biggest community.
	biggest := 0
	for _, members := range byCommunity {
		if len(members) > biggest {
			biggest = len(members)
		}
	}
	clusterRadius := math.Max(40, float64(biggest)*7)
	ringRadius := 0.0
	if len(labels) > 1 {
		ringRadius = clusterRadius*2 + 60
	}
	half := ringRadius + clusterRadius + maxNodeRadius + snapshotPadding
	width := int(2 * half)
	if width < 640 {
		width = 640
	}
	height := int(2*half + snapshotHeader)
	if height < 480 {
		height = 480
	}
	cx := float64(width) / 2
	cy := snapshotHeader + (float64(height)-snapshotHeader)/2

	nodes := make([]layoutNode, len(records))
	for li, c := range labels {
		members := byCommunity[c]
		angle := 2 * math.Pi * float64(li) / float64(len(labels))
		ccx := cx + ringRadius*math.Cos(angle)
		ccy := cy + ringRadius*math.Sin(angle)
		for mi, idx := range members {
			rec := records[idx]
			theta := 2 * math.Pi * float64(mi) / float64(len(members))
			r := clusterRadius
			if len(members) == 1 {
				r = 0
			}
			radius := minNodeRadius + (maxNodeRadius-minNodeRadius)*float64(rec.Degree)/float64(maxDegree)
			nodes[idx] = layoutNode{
				ID:        rec.ID,
				X:         ccx + r*math.Cos(theta),
				Y:         ccy + r*math.Sin(theta),
				Radius:    radius,
				Community: rec.Community,
			}
		}
	}

	index := make(map[string]int, len(records))
	for i, rec := range records {
		index[rec.ID] = i
	}
	var edges []layoutEdge
	for _, e := range opts.Edges {
		from, okF := index[e.Source]
		to, okT := index[e.Target]
		if !okF || !okT || from == to {
			continue
		}
		edges = append(edges, layoutEdge{From: from, To: to, Weight: e.Weight})
	}

	return snapshotLayout{Nodes: nodes, Edges: edges, Width: width, Height: height}
}

// communityPalette cycles for graphs with more communities than colours.
var communityPalette = []color.RGBA{
	{R: 0x4e, G: 0x79, B: 0xa7, A: 0xff},
	{R: 0xf2, G: 0x8e, B: 0x2b, A: 0xff},
	{R: 0xe1, G: 0x57, B: 0x59, A: 0xff},
	{R: 0x76, G: 0xb7, B: 0xb2, A: 0xff},
	{R: 0x59, G: 0xa1, B: 0x4f, A: 0xff},
	{R: 0xed, G: 0xc9, B: 0x48, A: 0xff},
	{R: 0xb0, G: 0x7a, B: 0xa1, A: 0xff},
	{R: 0xff, G: 0x9d, B: 0xa7, A: 0xff},
	{R: 0x9c, G: 0x75, B: 0x5f, A: 0xff},
	{R: 0xba, G: 0xb0, B: 0xac, A: 0xff},
}

func communityColor(c int) color.RGBA {
	return communityPalette[((c%len(communityPalette))+len(communityPalette))%len(communityPalette)]
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func snapshotTitle(opts GraphSnapshotOptions) string {
	if opts.Title != "" {
		return opts.Title
	}
	communities := make(map[int]bool)
	for _, rec := range opts.Result.Nodes {
		communities[rec.Community] = true
	}
	return fmt.Sprintf("netstats: %d nodes, %d edges, %d communities",
		len(opts.Result.Nodes), len(opts.Edges), len(communities))
}

// --- renderers -------------------------------------------------------------

func renderSVG(opts GraphSnapshotOptions, layout snapshotLayout) error {
	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	defer f.Close()

	canvas := svg.New(f)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, "fill:#ffffff")
	canvas.Text(int(snapshotPadding), 32, snapshotTitle(opts),
		"font-family:sans-serif;font-size:16px;fill:#333333")

	for _, e := range layout.Edges {
		from, to := layout.Nodes[e.From], layout.Nodes[e.To]
		width := 1.0
		if e.Weight > 1 {
			width = math.Min(4, 1+math.Log2(e.Weight))
		}
		canvas.Line(int(from.X), int(from.Y), int(to.X), int(to.Y),
			fmt.Sprintf("stroke:#cccccc;stroke-width:%.1f", width))
	}
	for _, n := range layout.Nodes {
		fill := hexColor(communityColor(n.Community))
		canvas.Circle(int(n.X), int(n.Y), int(n.Radius),
			fmt.Sprintf("fill:%s;stroke:#333333;stroke-width:1", fill))
		canvas.Text(int(n.X), int(n.Y-n.Radius-4), n.ID,
			"font-family:sans-serif;font-size:10px;fill:#333333;text-anchor:middle")
	}

	canvas.End()
	return nil
}

func renderPNG(opts GraphSnapshotOptions, layout snapshotLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawString(snapshotTitle(opts), snapshotPadding, 32)

	for _, e := range layout.Edges {
		from, to := layout.Nodes[e.From], layout.Nodes[e.To]
		width := 1.0
		if e.Weight > 1 {
			width = math.Min(4, 1+math.Log2(e.Weight))
		}
		dc.SetLineWidth(width)
		dc.SetRGB(0.8, 0.8, 0.8)
		dc.DrawLine(from.X, from.Y, to.X, to.Y)
		dc.Stroke()
	}
	for _, n := range layout.Nodes {
		c := communityColor(n.Community)
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 255)
		dc.DrawCircle(n.X, n.Y, n.Radius)
		dc.Fill()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawCircle(n.X, n.Y, n.Radius)
		dc.Stroke()
		dc.DrawStringAnchored(n.ID, n.X, n.Y-n.Radius-8, 0.5, 0.5)
	}

	return dc.SavePNG(opts.Path)
}

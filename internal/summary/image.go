package summary

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/fogleman/gg"

	"gportal/internal/api"
)

// Geometry in pixels. The image is drawn at 2x so chat clients keep it
// sharp after downscaling.
const (
	margin        = 40.0
	padX          = 20.0
	padY          = 16.0
	lineGap       = 4.0
	rowMinHeight  = 76.0
	headerHeight  = 88
	titlePadding  = 110
	footerPadding = 80
	colMinWidth   = 110.0
	cornerRadius  = 16.0

	bodyPoints   = 26.0
	titlePoints  = 40.0
	footerPoints = 24.0
)

var (
	canvasBg    = color.RGBA{R: 245, G: 247, B: 250, A: 255}
	ink         = color.RGBA{R: 30, G: 41, B: 59, A: 255}
	mutedInk    = color.RGBA{R: 100, G: 116, B: 139, A: 255}
	headerBg    = color.RGBA{R: 39, G: 174, B: 96, A: 255}
	headerInk   = color.White
	stripeLight = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	stripeDark  = color.RGBA{R: 241, G: 245, B: 249, A: 255}
	gridLine    = color.RGBA{R: 203, G: 213, B: 225, A: 255}
)

// priorityInk colours the Priority cell.
var priorityInk = map[string]color.Color{
	api.PriorityHigh:   color.RGBA{R: 220, G: 53, B: 69, A: 255},
	api.PriorityMedium: color.RGBA{R: 133, G: 100, B: 4, A: 255},
	api.PriorityLow:    color.RGBA{R: 21, G: 87, B: 36, A: 255},
}

type column struct {
	title string
	value func(Row) string
	limit float64 // widest the column may grow; 0 is unbounded
}

var columns = []column{
	{"Tracking ID", func(r Row) string { return r.TrackingID }, 0},
	{"Name", func(r Row) string { return r.Name }, 300},
	{"Phone", func(r Row) string { return r.Phone }, 0},
	{"Subject", func(r Row) string { return r.Subject }, 480},
	{"Priority", func(r Row) string { return r.Priority }, 0},
	{"Status", func(r Row) string { return r.Status }, 0},
	{"Filed", func(r Row) string { return r.Created }, 0},
}

var fontCandidates = map[bool][]string{
	false: {
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/Library/Fonts/Arial.ttf",
	},
	true: {
		"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
		"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
		"/Library/Fonts/Arial Bold.ttf",
	},
}

// fontPath returns the first installed candidate, or "" when none is.
func fontPath(bold bool) string {
	paths := fontCandidates[bold]
	if runtime.GOOS == "windows" {
		dir := os.Getenv("WINDIR")
		if dir == "" {
			dir = `C:\Windows`
		}
		name := `\Fonts\arial.ttf`
		if bold {
			name = `\Fonts\arialbd.ttf`
		}
		paths = []string{dir + name}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// fonts loads faces onto a context. A missing font leaves gg's built-in
// face in place so rendering works on hosts without TrueType fonts.
type fonts struct {
	regular, bold string
}

func (f fonts) use(dc *gg.Context, bold bool, points float64) {
	path := f.regular
	if bold {
		path = f.bold
	}
	if path != "" {
		_ = dc.LoadFontFace(path, points)
	}
}

// layout holds everything measured before drawing.
type layout struct {
	widths  []float64
	heights []float64
	cells   [][][]string // row, column, wrapped lines
	lineH   float64
	tableW  float64
	tableH  float64
}

func (l layout) canvasSize() (float64, float64) {
	return l.tableW + 2*margin, titlePadding + l.tableH + footerPadding
}

// wrap breaks text into lines no wider than limit.
func wrap(dc *gg.Context, text string, limit float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	if limit <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if width, _ := dc.MeasureString(line + " " + w); width > limit {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

func measure(f fonts, rows []Row) layout {
	dc := gg.NewContext(1, 1)
	l := layout{widths: make([]float64, len(columns))}

	f.use(dc, true, bodyPoints)
	for i, c := range columns {
		w, _ := dc.MeasureString(c.title)
		l.widths[i] = max(w+2*padX+lineGap, colMinWidth)
	}

	f.use(dc, false, bodyPoints)
	for _, r := range rows {
		for i, c := range columns {
			w, _ := dc.MeasureString(c.value(r))
			l.widths[i] = max(l.widths[i], w+2*padX+lineGap)
		}
	}
	for i, c := range columns {
		if c.limit > 0 {
			l.widths[i] = min(l.widths[i], c.limit)
		}
		l.tableW += l.widths[i]
	}

	_, h := dc.MeasureString("Ay")
	l.lineH = h + lineGap
	l.tableH = headerHeight
	for _, r := range rows {
		cells := make([][]string, len(columns))
		lines := 1
		for i, c := range columns {
			cells[i] = wrap(dc, c.value(r), l.widths[i]-2*padX)
			lines = max(lines, len(cells[i]))
		}
		rh := max(float64(lines)*l.lineH+2*padY, rowMinHeight)
		l.cells = append(l.cells, cells)
		l.heights = append(l.heights, rh)
		l.tableH += rh
	}
	return l
}

// RenderTable renders rows as a table image titled with the department
// and returns PNG bytes. Rows are drawn in the order given.
func RenderTable(department string, rows []Row, now time.Time) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no petitions to render")
	}

	f := fonts{regular: fontPath(false), bold: fontPath(true)}
	l := measure(f, rows)
	width, height := l.canvasSize()

	dc := gg.NewContext(int(width), int(height))
	dc.SetColor(canvasBg)
	dc.Clear()

	f.use(dc, true, titlePoints)
	dc.SetColor(ink)
	title := fmt.Sprintf("Open Petitions: %s (%s)", department, now.Format("02 Jan 2006, 03:04 PM"))
	dc.DrawStringAnchored(title, width/2, titlePadding/2, 0.5, 0.5)

	top := float64(titlePadding)
	dc.SetColor(headerBg)
	dc.DrawRoundedRectangle(margin, top, l.tableW, headerHeight, cornerRadius)
	dc.Fill()

	f.use(dc, true, bodyPoints)
	dc.SetColor(headerInk)
	x := margin
	for i, c := range columns {
		dc.DrawStringAnchored(c.title, x+l.widths[i]/2, top+headerHeight/2, 0.5, 0.5)
		x += l.widths[i]
	}

	f.use(dc, false, bodyPoints)
	y := top + headerHeight
	for ri, r := range rows {
		drawRow(dc, l, ri, r, y)
		y += l.heights[ri]
	}

	dc.SetColor(gridLine)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(margin, top, l.tableW, l.tableH, cornerRadius)
	dc.Stroke()
	dc.SetLineWidth(0.5)
	x = margin
	for _, w := range l.widths[:len(l.widths)-1] {
		x += w
		dc.DrawLine(x, top+headerHeight, x, top+l.tableH)
		dc.Stroke()
	}

	f.use(dc, false, footerPoints)
	dc.SetColor(mutedInk)
	dc.DrawStringAnchored(fmt.Sprintf("Total: %d open petitions", len(rows)), width/2, height-30, 0.5, 0.5)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode summary image: %w", err)
	}
	return buf.Bytes(), nil
}

func drawRow(dc *gg.Context, l layout, index int, r Row, y float64) {
	h := l.heights[index]

	dc.SetColor(stripeLight)
	if index%2 == 1 {
		dc.SetColor(stripeDark)
	}
	dc.DrawRectangle(margin, y, l.tableW, h)
	dc.Fill()

	dc.SetColor(gridLine)
	dc.SetLineWidth(0.5)
	dc.DrawLine(margin, y+h, margin+l.tableW, y+h)
	dc.Stroke()

	x := margin
	for ci, lines := range l.cells[index] {
		dc.SetColor(ink)
		if columns[ci].title == "Priority" {
			if c, ok := priorityInk[r.Priority]; ok {
				dc.SetColor(c)
			}
		}
		first := y + (h-float64(len(lines))*l.lineH)/2 + l.lineH - lineGap
		for li, line := range lines {
			dc.DrawString(line, x+padX, first+float64(li)*l.lineH)
		}
		x += l.widths[ci]
	}
}

// WriteFile renders rows and saves the PNG at path.
func WriteFile(path, department string, rows []Row, now time.Time) ([]byte, error) {
	data, err := RenderTable(department, rows, now)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write summary image: %w", err)
	}
	return data, nil
}

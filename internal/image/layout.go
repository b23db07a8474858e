package imagepkg

const (
	DefaultCardWidth  = 1050
	DefaultCardHeight = 750
	DefaultColumns    = 6
)

// Layout holds the pixel size of one card and the column count of a sheet.
type Layout struct {
	CardWidth  int
	CardHeight int
	Columns    int
}

var DefaultLayout = Layout{
	CardWidth:  DefaultCardWidth,
	CardHeight: DefaultCardHeight,
	Columns:    DefaultColumns,
}

func (l Layout) columns() int {
	if l.Columns < 1 {
		return 1
	}
	return l.Columns
}

func (l Layout) SingleCardDimensions() (width, height int) {
	return l.CardWidth, l.CardHeight
}

// Rows is ceil(n / Columns), and at least 1 so an empty deck still gets a canvas.
func (l Layout) Rows(n int) int {
	cols := l.columns()
	rows := (n + cols - 1) / cols
	if rows < 1 {
		return 1
	}
	return rows
}

// SheetDimensions is always Columns cards wide, however few cards there are.
func (l Layout) SheetDimensions(n int) (width, height int) {
	return l.CardWidth * l.columns(), l.CardHeight * l.Rows(n)
}

// Package normalizer parses the SAM entity-registration extract into
// contact records and the formatted entity workbook.
package normalizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"samivl/internal/logger"
	"samivl/internal/models"
	"samivl/internal/tabular"
)

// DefaultProgressEvery is the row interval between progress log lines.
const DefaultProgressEvery = 10000

// ErrEmptyExtract is returned when the input has no header row.
var ErrEmptyExtract = errors.New("extract is empty")

// ParseStats summarizes one pass over an extract.
type ParseStats struct {
	Rows      int
	ShortRows int
	Skipped   int
	WithEmail int
	WithPhone int
	Elapsed   time.Duration
}

// Processor streams extract rows through the transformer.
type Processor struct {
	layout        Layout
	areaCodes     AreaCodes
	transformer   *Transformer
	logger        *logger.Logger
	progressEvery int
}

// Option configures a Processor.
type Option func(*Processor)

// WithLayout replaces the default column layout.
func WithLayout(l Layout) Option {
	return func(p *Processor) { p.layout = l }
}

// WithAreaCodes replaces the default area-code set.
func WithAreaCodes(codes AreaCodes) Option {
	return func(p *Processor) { p.areaCodes = codes }
}

// WithLogger sets the progress logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// WithProgressEvery sets the progress interval. Zero disables progress lines.
func WithProgressEvery(n int) Option {
	return func(p *Processor) { p.progressEvery = n }
}

// NewProcessor creates a new processor instance.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		layout:        DefaultLayout(),
		areaCodes:     DefaultAreaCodes(),
		logger:        logger.Discard(),
		progressEvery: DefaultProgressEvery,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.transformer = NewTransformer(p.layout, NewExtractor(NewValidator(p.areaCodes)))

	return p
}

// Layout returns the layout in use.
func (p *Processor) Layout() Layout {
	return p.layout
}

// Process reads r, skips one header row, and transforms every data row.
// The context is checked between rows.
func (p *Processor) Process(ctx context.Context, r io.Reader) ([]*models.EntityRecord, ParseStats, error) {
	start := time.Now()
	stats := ParseStats{}

	reader := tabular.NewExtractReader(r)
	if err := reader.SkipHeader(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, ErrEmptyExtract
		}

		return nil, stats, err
	}

	var records []*models.EntityRecord

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, stats, fmt.Errorf("line %d: %w", reader.Line()+1, err)
		}

		if p.transformer.Short(row) {
			stats.ShortRows++
		}

		rec := p.transformer.Transform(row)
		if rec.EmailCount() > 0 {
			stats.WithEmail++
		}

		if rec.PhoneCount() > 0 {
			stats.WithPhone++
		}

		records = append(records, rec)
		stats.Rows++

		if p.progressEvery > 0 && stats.Rows%p.progressEvery == 0 {
			p.logger.Info("processing extract", "rows", stats.Rows, "line", reader.Line())
		}
	}

	for _, w := range reader.Warnings() {
		p.logger.Warn("skipped unparseable row", "line", w.Line, "reason", w.Message)
	}

	stats.Skipped = len(reader.Warnings())
	stats.Elapsed = time.Since(start)

	return records, stats, nil
}

// BuildTable projects records to the workbook columns, renames them, and
// stable-sorts rows with email first, then phone.
func (p *Processor) BuildTable(records []*models.EntityRecord) *tabular.Table {
	cols := p.layout.Columns()

	full := tabular.NewTable(cols)
	for _, rec := range records {
		full.Rows = append(full.Rows, Values(rec, cols))
	}

	out := full.Project(OutputColumns)
	out.Rename(OutputLabels)
	out.FillDefault(LabelHasEmail, models.FlagNo)
	out.StableSort(
		tabular.SortKey{Column: LabelHasEmail, Desc: true},
		tabular.SortKey{Column: LabelHasPhone, Desc: true},
	)

	return out
}

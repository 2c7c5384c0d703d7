package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/solstice035/health-analytics/internal/icloud"
	"github.com/solstice035/health-analytics/internal/logging"
)

// ErrNoData indicates that no export files were found for the
// requested range.
var ErrNoData = errors.New("no health export data found")

// DateLayout is the calendar-day format used throughout the pipeline.
const DateLayout = "2006-01-02"

// exportFileName returns the Health Auto Export file name for a day.
func exportFileName(date string) string {
	return fmt.Sprintf("HealthAutoExport-%s.json", date)
}

// Loader reads daily export files from a directory, tolerating gaps
// where the export app skipped a day.
type Loader struct {
	dir    string
	policy RestingHRPolicy
}

// NewLoader returns a Loader over dir using the given resting heart
// rate policy.
func NewLoader(dir string, policy RestingHRPolicy) *Loader {
	return &Loader{dir: dir, policy: policy}
}

// LoadDay reads and aggregates a single day. Returns ErrNoData when
// the file does not exist.
func (l *Loader) LoadDay(ctx context.Context, date string) (DailyAggregate, error) {
	path := filepath.Join(l.dir, exportFileName(date))
	raw, err := icloud.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DailyAggregate{}, fmt.Errorf("%w: %s", ErrNoData, date)
		}
		return DailyAggregate{}, fmt.Errorf("read export %s: %w", date, err)
	}
	export, err := ParseExport(raw)
	if err != nil {
		return DailyAggregate{}, fmt.Errorf("export %s: %w", date, err)
	}
	return BuildDaily(date, export, l.policy), nil
}

// LoadRange aggregates the days ending at end, oldest first. Missing
// or unreadable files are skipped; ErrNoData is returned only when
// nothing in the range could be loaded.
func (l *Loader) LoadRange(ctx context.Context, end time.Time, days int) ([]DailyAggregate, error) {
	var out []DailyAggregate
	for i := days - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date := end.AddDate(0, 0, -i).Format(DateLayout)
		agg, err := l.LoadDay(ctx, date)
		if err != nil {
			if errors.Is(err, ErrNoData) {
				continue
			}
			logging.Warn("Skipping unreadable export", "date", date, "error", err)
			continue
		}
		out = append(out, agg)
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	logging.Debug("Loaded export range", "days_requested", days, "days_loaded", len(out))
	return out, nil
}

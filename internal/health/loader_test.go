package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeExport(t *testing.T, dir, date string, steps int) {
	t.Helper()
	body := fmt.Sprintf(`{"data":{"metrics":[{"name":"step_count","units":"count","data":[{"date":"%s 12:00:00 +0100","qty":%d}]}]}}`, date, steps)
	path := filepath.Join(dir, exportFileName(date))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDay(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeExport(t, dir, "2025-06-01", 8500)

	loader := NewLoader(dir, RestingHRLast)
	agg, err := loader.LoadDay(context.Background(), "2025-06-01")
	if err != nil {
		t.Fatalf("LoadDay() error: %v", err)
	}
	if agg.Date != "2025-06-01" || agg.Steps != 8500 {
		t.Errorf("got %+v", agg)
	}
}

func TestLoadDayMissing(t *testing.T) {
	t.Parallel()

	loader := NewLoader(t.TempDir(), RestingHRLast)
	_, err := loader.LoadDay(context.Background(), "2025-06-01")
	if !errors.Is(err, ErrNoData) {
		t.Errorf("LoadDay() error = %v, want ErrNoData", err)
	}
}

func TestLoadRangeSkipsGaps(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeExport(t, dir, "2025-06-01", 1000)
	// 2025-06-02 is missing.
	writeExport(t, dir, "2025-06-03", 3000)

	end, _ := time.Parse(DateLayout, "2025-06-03")
	loader := NewLoader(dir, RestingHRLast)
	days, err := loader.LoadRange(context.Background(), end, 3)
	if err != nil {
		t.Fatalf("LoadRange() error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("loaded %d days, want 2", len(days))
	}
	if days[0].Date != "2025-06-01" || days[1].Date != "2025-06-03" {
		t.Errorf("dates = %s, %s", days[0].Date, days[1].Date)
	}
}

func TestLoadRangeEmpty(t *testing.T) {
	t.Parallel()

	end, _ := time.Parse(DateLayout, "2025-06-03")
	loader := NewLoader(t.TempDir(), RestingHRLast)
	_, err := loader.LoadRange(context.Background(), end, 5)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("LoadRange() error = %v, want ErrNoData", err)
	}
}

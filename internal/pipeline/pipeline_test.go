package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"signal-desk/internal/config"
	"signal-desk/internal/feed"
)

func writeFeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCycleCombinesScans(t *testing.T) {
	am := writeFeed(t, "am.json", `[{"symbol":"AAA","score":2},{"symbol":"BBB","score":9}]`)
	pm := writeFeed(t, "pm.json", `[{"symbol":"CCC","score":99}]`)

	scans := []config.ScanSource{
		{Tag: "08:00 Squeeze", Source: am},
		{Tag: "15:15 Power", Source: pm},
	}

	runner := New(feed.New(), scans, 200, zerolog.Nop())
	cycle := runner.RunCycle(context.Background())

	if len(cycle.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(cycle.Rows))
	}

	// Within the first scan rows are ranked by score, and the second scan's
	// rows follow even with a higher score.
	want := []string{"BBB", "AAA", "CCC"}
	for i, w := range want {
		if cycle.Rows[i].Symbol != w {
			t.Fatalf("rows[%d] = %s, want %s", i, cycle.Rows[i].Symbol, w)
		}
	}
	if cycle.Rows[0].Scan != "08:00 Squeeze" || cycle.Rows[2].Scan != "15:15 Power" {
		t.Errorf("scan tags not applied: %s / %s", cycle.Rows[0].Scan, cycle.Rows[2].Scan)
	}
}

func TestRunCycleIsolatesFailingFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	good := writeFeed(t, "good.json", `[{"symbol":"OK","score":1}]`)

	scans := []config.ScanSource{
		{Tag: "08:00 Squeeze", Source: server.URL},
		{Tag: "10:00 Confirm", Source: good},
	}

	runner := New(feed.New(), scans, 200, zerolog.Nop())
	cycle := runner.RunCycle(context.Background())

	if len(cycle.Rows) != 1 || cycle.Rows[0].Symbol != "OK" {
		t.Fatalf("healthy feed should still contribute, got %v", cycle.Rows)
	}

	if len(cycle.Statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(cycle.Statuses))
	}
	if cycle.Statuses[0].OK || cycle.Statuses[0].Error == "" {
		t.Errorf("failing feed status should carry the error: %+v", cycle.Statuses[0])
	}
	if !cycle.Statuses[1].OK || cycle.Statuses[1].Records != 1 {
		t.Errorf("healthy feed status: %+v", cycle.Statuses[1])
	}
}

func TestRunCycleRecoversUnreachableHost(t *testing.T) {
	scans := []config.ScanSource{
		{Tag: "08:00 Squeeze", Source: "http://127.0.0.1:1/x"},
	}

	runner := New(feed.New(), scans, 200, zerolog.Nop())
	cycle := runner.RunCycle(context.Background())

	if len(cycle.Rows) != 0 {
		t.Fatalf("expected empty board, got %d rows", len(cycle.Rows))
	}
	if cycle.Statuses[0].OK {
		t.Error("connection failure should be reported in the source status")
	}
}

func TestRunCycleMissingFilesYieldEmptyBoard(t *testing.T) {
	dir := t.TempDir()
	scans := []config.ScanSource{
		{Tag: "08:00 Squeeze", Source: filepath.Join(dir, "a.json")},
		{Tag: "10:00 Confirm", Source: filepath.Join(dir, "b.json")},
	}

	runner := New(feed.New(), scans, 200, zerolog.Nop())
	cycle := runner.RunCycle(context.Background())

	if len(cycle.Rows) != 0 {
		t.Fatalf("expected empty board, got %d rows", len(cycle.Rows))
	}
	for _, st := range cycle.Statuses {
		if !st.OK {
			t.Errorf("missing file is not a failure: %+v", st)
		}
	}
}

func TestRunCycleTruncatesToMaxRows(t *testing.T) {
	var body string
	body = "["
	for i := 0; i < 60; i++ {
		if i > 0 {
			body += ","
		}
		body += `{"symbol":"S","score":1}`
	}
	body += "]"

	path := writeFeed(t, "big.json", body)
	runner := New(feed.New(), []config.ScanSource{{Tag: "tag", Source: path}}, 50, zerolog.Nop())
	cycle := runner.RunCycle(context.Background())

	if len(cycle.Rows) != 50 {
		t.Fatalf("expected 50 rows after truncation, got %d", len(cycle.Rows))
	}
}

func TestRunCycleExtractsOptions(t *testing.T) {
	path := writeFeed(t, "opts.json", `[
		{"symbol":"XYZ","score":5,"options":{"type":"call","options_ticker":"XYZ1","strike":50}},
		{"symbol":"ABC","score":3}
	]`)

	runner := New(feed.New(), []config.ScanSource{{Tag: "tag", Source: path}}, 200, zerolog.Nop())
	cycle := runner.RunCycle(context.Background())

	if len(cycle.Options) != 1 {
		t.Fatalf("expected 1 option suggestion, got %d", len(cycle.Options))
	}
	if cycle.Options[0].Symbol != "XYZ" || cycle.Options[0].OptionsTicker != "XYZ1" {
		t.Errorf("unexpected suggestion: %+v", cycle.Options[0])
	}
}

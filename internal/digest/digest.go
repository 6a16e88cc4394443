// Package digest merges ranked scan collections into the global board and
// renders the compact push-notification text.
package digest

import (
	"fmt"
	"strconv"
	"strings"

	"signal-desk/internal/errors"
	"signal-desk/internal/models"
)

// Header is the fixed first line of every pushed digest.
const Header = "Signal Desk — Top Picks"

// Aggregate concatenates the per-scan ranked collections in their given
// order and truncates to maxRows. Each collection is already ranked, and no
// re-sort happens across scans: the board shows all of scan A's rows, then
// all of scan B's. A non-positive maxRows means no truncation.
func Aggregate(collections [][]models.CanonicalRecord, maxRows int) []models.CanonicalRecord {
	total := 0
	for _, c := range collections {
		total += len(c)
	}

	out := make([]models.CanonicalRecord, 0, total)
	for _, c := range collections {
		out = append(out, c...)
	}

	if maxRows > 0 && len(out) > maxRows {
		out = out[:maxRows]
	}
	return out
}

// Build renders the digest text for the first topN rows of an already-ranked
// collection. An empty collection returns ErrEmptyDigest so callers can
// distinguish "nothing to send" from a deliverable message and skip the send
// entirely.
func Build(rows []models.CanonicalRecord, topN int) (string, error) {
	if len(rows) == 0 {
		return "", errors.ErrEmptyDigest
	}

	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, Header)
	for _, r := range rows {
		lines = append(lines, Line(r))
	}
	return strings.Join(lines, "\n"), nil
}

// Line renders a single digest line:
//
//	ABC $12.5 [up]  Score:5  Δ%:2.1  (08:00 Squeeze)
//
// The bracketed direction segment is omitted entirely when dir is empty.
// Missing numerics render as empty text, never as "null".
func Line(r models.CanonicalRecord) string {
	var b strings.Builder
	b.WriteString(r.Symbol)
	b.WriteString(" $")
	b.WriteString(Num(r.Price))
	if r.Dir != "" {
		b.WriteString(" [")
		b.WriteString(r.Dir)
		b.WriteString("]")
	}
	fmt.Fprintf(&b, "  Score:%s  Δ%%:%s  (%s)", Num(r.Score), Num(r.Pct), r.Scan)
	return b.String()
}

// Num renders a nullable numeric compactly: trailing zeros trimmed, nil as
// empty text.
func Num(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

package server

import (
	"html/template"
	"net/http"
	"time"

	"signal-desk/internal/digest"
	"signal-desk/internal/models"
	"signal-desk/pkg/utils"
)

type rowView struct {
	Scan   string
	Symbol string
	Link   string
	Type   string
	Score  string
	Price  string
	Pct    string
	Vol    string
	Dir    string
	VWAP   string
	Pos    string
	Momo   string
}

type optionView struct {
	Scan       string
	Symbol     string
	Type       string
	Ticker     string
	Strike     string
	Expiration string
	Mid        string
	BuyRange   string
	Target     string
	Stop       string
}

type statusView struct {
	Tag     string
	Source  string
	Records int
	OK      bool
	Error   string
}

type pageData struct {
	At        string
	Refresh   int
	Rows      []rowView
	Options   []optionView
	Statuses  []statusView
	NextScans []utils.ScanTime
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	cycle := s.latest(r.Context())

	data := pageData{
		At:        cycle.At.Format("15:04:05 MST"),
		Refresh:   int(s.refresh.Seconds()),
		NextScans: utils.NextScanTimes(time.Now()),
	}
	for _, rec := range cycle.Rows {
		data.Rows = append(data.Rows, toRowView(rec))
	}
	for _, opt := range cycle.Options {
		data.Options = append(data.Options, toOptionView(opt))
	}
	for _, st := range cycle.Statuses {
		data.Statuses = append(data.Statuses, statusView{
			Tag:     st.Tag,
			Source:  st.Source,
			Records: st.Records,
			OK:      st.OK,
			Error:   st.Error,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render dashboard")
	}
}

func toRowView(r models.CanonicalRecord) rowView {
	price := ""
	if r.Price != nil {
		price = utils.FormatPrice(*r.Price)
	}
	return rowView{
		Scan:   r.Scan,
		Symbol: r.Symbol,
		Link:   utils.ChartLink(r.Symbol),
		Type:   r.Type,
		Score:  digest.Num(r.Score),
		Price:  price,
		Pct:    digest.Num(r.Pct),
		Vol:    utils.HumanVolumePtr(r.Vol),
		Dir:    r.Dir,
		VWAP:   digest.Num(r.VWAP),
		Pos:    r.Pos,
		Momo:   digest.Num(r.Momo),
	}
}

func toOptionView(o models.OptionSuggestion) optionView {
	v := optionView{
		Scan:       o.Scan,
		Symbol:     o.Symbol,
		Type:       o.Type,
		Ticker:     o.OptionsTicker,
		Strike:     digest.Num(o.Strike),
		Expiration: o.Expiration,
		Mid:        digest.Num(o.Mid),
		Target:     digest.Num(o.Target),
		Stop:       digest.Num(o.Stop),
	}
	if o.BuyMin != nil || o.BuyMax != nil {
		v.BuyRange = digest.Num(o.BuyMin) + "-" + digest.Num(o.BuyMax)
	}
	return v
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Signal Desk</title>
{{if gt .Refresh 0}}<meta http-equiv="refresh" content="{{.Refresh}}">{{end}}
<style>
body { font-family: -apple-system, sans-serif; background: #0e1117; color: #fafafa; margin: 0; padding: 24px; }
h1 { font-size: 1.4em; margin: 0 0 4px; }
h2 { font-size: 1.1em; margin: 24px 0 8px; }
.meta { color: #8b949e; font-size: 0.85em; margin-bottom: 16px; }
.scans { display: flex; gap: 16px; margin-bottom: 16px; flex-wrap: wrap; }
.scan { background: #161b22; border: 1px solid #30363d; border-radius: 6px; padding: 8px 14px; }
.scan .label { font-size: 0.8em; color: #8b949e; }
.scan .eta { font-size: 1.1em; font-variant-numeric: tabular-nums; }
table { border-collapse: collapse; width: 100%; font-size: 0.9em; }
th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #21262d; }
th { color: #8b949e; font-weight: 600; }
td.num { font-variant-numeric: tabular-nums; }
a { color: #58a6ff; text-decoration: none; }
.ok { color: #3fb950; }
.fail { color: #f85149; }
.empty { color: #8b949e; padding: 16px 0; }
</style>
</head>
<body>
<h1>Signal Desk</h1>
<div class="meta">Refreshed {{.At}}</div>

<div class="scans">
{{range .NextScans}}
  <div class="scan"><div class="label">{{.Label}}</div><div class="eta">{{.Until}}</div></div>
{{end}}
</div>

<h2>Top Picks</h2>
{{if .Rows}}
<table>
<tr><th>Scan</th><th>Symbol</th><th>Type</th><th>Score</th><th>Price</th><th>&Delta;%</th><th>Vol</th><th>Dir</th><th>VWAP</th><th>Pos</th><th>Momo</th></tr>
{{range .Rows}}
<tr>
  <td>{{.Scan}}</td>
  <td><a href="{{.Link}}" target="_blank">{{.Symbol}}</a></td>
  <td>{{.Type}}</td>
  <td class="num">{{.Score}}</td>
  <td class="num">{{.Price}}</td>
  <td class="num">{{.Pct}}</td>
  <td class="num">{{.Vol}}</td>
  <td>{{.Dir}}</td>
  <td class="num">{{.VWAP}}</td>
  <td>{{.Pos}}</td>
  <td class="num">{{.Momo}}</td>
</tr>
{{end}}
</table>
{{else}}
<div class="empty">No signals yet. Feeds may be empty or unreachable.</div>
{{end}}

{{if .Options}}
<h2>Option Picks</h2>
<table>
<tr><th>Scan</th><th>Symbol</th><th>Type</th><th>Contract</th><th>Strike</th><th>Exp</th><th>Mid</th><th>Buy</th><th>Target</th><th>Stop</th></tr>
{{range .Options}}
<tr>
  <td>{{.Scan}}</td>
  <td>{{.Symbol}}</td>
  <td>{{.Type}}</td>
  <td>{{.Ticker}}</td>
  <td class="num">{{.Strike}}</td>
  <td>{{.Expiration}}</td>
  <td class="num">{{.Mid}}</td>
  <td class="num">{{.BuyRange}}</td>
  <td class="num">{{.Target}}</td>
  <td class="num">{{.Stop}}</td>
</tr>
{{end}}
</table>
{{end}}

<h2>Feeds</h2>
<table>
<tr><th>Scan</th><th>Source</th><th>Records</th><th>Status</th></tr>
{{range .Statuses}}
<tr>
  <td>{{.Tag}}</td>
  <td>{{.Source}}</td>
  <td class="num">{{.Records}}</td>
  <td>{{if .OK}}<span class="ok">ok</span>{{else}}<span class="fail">{{.Error}}</span>{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

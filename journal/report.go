package journal

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

var runOrgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var runOrgTmpl = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

// OrgReport renders the run as an Org-mode block for review notes.
func (r *RunRecord) OrgReport() (string, error) {
	buf := new(bytes.Buffer)
	if err := runOrgTmpl.Execute(buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteOrg renders the run report and writes it to path.
func (r *RunRecord) WriteOrg(path string) error {
	report, err := r.OrgReport()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(report), 0644)
}

const RunOrgTemplate = `
* BACKTEST: {{.Strategy}} {{.Symbol}} {{if .Interval}}{{.Interval}}{{else}}(interval?){{end}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    {{.Strategy}}
:SYMBOL:      {{.Symbol}}
:INTERVAL:    {{if .Interval}}{{.Interval}}{{else}}(interval?){{end}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:START_BAL:   {{printf "%.2f" .InitialBalance}}
:END_BAL:     {{printf "%.2f" .FinalBalance}}
:NET_PL:      {{printf "%.2f" .NetPL}}
:RETURN_PCT:  {{printf "%.2f" (mul100 .ReturnPct)}}
:MAX_DD_PCT:  {{if ne .MaxDrawdownPct 0.0}}{{printf "%.2f" (mul100 .MaxDrawdownPct)}}{{else}}(max-dd?){{end}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" (mul100 .WinRate)}}
:PROFIT_FAC:  {{if ne .ProfitFactor 0.0}}{{printf "%.2f" .ProfitFactor}}{{else}}(profit-factor?){{end}}
:SHARPE:      {{printf "%.2f" .SharpeRatio}}
:COMMISSION:  {{printf "%.2f" .TotalCommission}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:          *{{printf "%.2f" .NetPL}}*
- Return:           *{{printf "%.2f" (mul100 .ReturnPct)}}%*
- Max Drawdown:     *{{if ne .MaxDrawdownPct 0.0}}{{printf "%.2f" (mul100 .MaxDrawdownPct)}}{{else}}(max-dd?){{end}}%*
- Win Rate:         *{{printf "%.2f" (mul100 .WinRate)}}%*
- Profit Factor:    *{{if ne .ProfitFactor 0.0}}{{printf "%.2f" .ProfitFactor}}{{else}}(profit-factor?){{end}}*
- Sharpe:           *{{printf "%.2f" .SharpeRatio}}*
- Commission paid:  *{{printf "%.2f" .TotalCommission}}*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |
`

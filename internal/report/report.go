package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/GlebRadaev/coinreport/internal/domain"
	"github.com/GlebRadaev/coinreport/pkg/coins"
)

const DefaultHeading = "快手多账号收益报告"

var page = template.Must(template.New("report").Funcs(template.FuncMap{
	"cash": coins.ToCash,
	"yuan": coins.Yuan,
}).Parse(`<div style="width: 100%; max-width: 600px; margin: 0 auto; font-family: Arial, sans-serif;">
<div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; border-radius: 10px; text-align: center;">
<h2 style="margin: 0; font-size: 18px;">{{.Heading}}</h2>
<p style="margin: 10px 0 0; font-size: 14px;">日期：{{.Date}}</p>
</div>
{{- range .Cards}}
<div class="account" data-status="{{.Status}}" style="background: white; margin: 15px 0; padding: 20px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1);">
<h3 style="margin: 0 0 15px; font-size: 16px; color: #333;">{{.Label}} · {{.Snapshot.Nickname}}</h3>
<div style="margin: 10px 0;"><span style="display: inline-block; width: 120px; color: #666;">总现金：</span><span style="color: red; font-weight: bold;">{{yuan .Snapshot.TotalCashYuan}}元</span></div>
<div style="margin: 10px 0;"><span style="display: inline-block; width: 120px; color: #666;">总金币：</span><span>{{.Snapshot.CoinBalance}}枚</span><span style="margin-left: 10px; color: #666;">({{cash .Snapshot.CoinBalance}}元)</span></div>
{{- if .Full}}
<div style="margin: 10px 0;"><span style="display: inline-block; width: 120px; color: #666;">累计收益：</span><span style="color: red; font-weight: bold;">{{yuan .Snapshot.AccumulatedIncomeYuan}}元</span></div>
<div style="margin: 10px 0;"><span style="display: inline-block; width: 120px; color: #666;">今日收益：</span><span>{{.TodayEarnedCoins}}金币</span><span style="margin-left: 10px; color: #666;">({{cash .TodayEarnedCoins}}元)</span></div>
{{- else}}
<div style="margin: 10px 0; color: #999;">收益明细获取失败，仅展示基础信息</div>
{{- end}}
</div>
{{- end}}
<div class="summary" style="margin: 15px 0; padding: 15px; border-radius: 10px; background: #f5f5f5; color: #666; font-size: 14px;">
<p style="margin: 0;">共处理{{.Summary.Processed}}个账号，成功{{.Summary.Succeeded}}个，部分成功{{.Summary.Partial}}个</p>
<p style="margin: 5px 0 0;">今日收益合计：{{.Summary.TodayEarnedCoins}}金币 ({{cash .Summary.TodayEarnedCoins}}元)</p>
<p style="margin: 5px 0 0;">当前金币合计：{{.Summary.CurrentCoins}}金币 ({{cash .Summary.CurrentCoins}}元)</p>
</div>
</div>
`))

type card struct {
	domain.AccountResult
	Full bool
}

type view struct {
	Heading string
	Date    string
	Cards   []card
	Summary domain.Summary
}

type Renderer struct {
	heading string
}

func New(heading string) *Renderer {
	if heading == "" {
		heading = DefaultHeading
	}
	return &Renderer{heading: heading}
}

// Render builds the HTML report. Failed accounts get no card but are counted in the summary.
// The output depends only on its arguments.
func (r *Renderer) Render(date time.Time, results []domain.AccountResult) (string, error) {
	v := view{
		Heading: r.heading,
		Date:    date.Format("2006-01-02"),
		Summary: domain.Summarize(results),
	}
	for _, res := range results {
		if !res.Reported() {
			continue
		}
		v.Cards = append(v.Cards, card{AccountResult: res, Full: res.Status == domain.StatusOK})
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

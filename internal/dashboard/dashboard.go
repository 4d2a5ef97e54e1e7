// Package dashboard renders the filtered finding table as an HTML page with
// the severity and team charts.
package dashboard

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tmnguyen/postureboard/internal/finding"
	"github.com/tmnguyen/postureboard/internal/report"
)

// Render writes the dashboard page for a filtered view: a bar chart of
// findings per severity with the fixed per-label colors, and a pie chart of
// findings per team. The headline counts ride along as the bar chart
// subtitle.
func Render(w io.Writer, view finding.Table) error {
	page := components.NewPage()
	page.PageTitle = "AWS Security Posture Dashboard"
	page.AddCharts(severityBar(view), teamPie(view))
	return page.Render(w)
}

func severityBar(view finding.Table) *charts.Bar {
	summary := report.Summarize(view)
	buckets := report.CountBySeverity(view)

	labels := make([]string, 0, len(buckets))
	data := make([]opts.BarData, 0, len(buckets))
	for _, b := range buckets {
		color, ok := report.SeverityColors[b.Label]
		if !ok {
			color = report.DefaultSeverityColor
		}
		labels = append(labels, b.Label)
		data = append(data, opts.BarData{
			Value:     b.Count,
			ItemStyle: &opts.ItemStyle{Color: color},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Findings by Severity",
			Subtitle: fmt.Sprintf("Total %d · Critical %d · High %d · Medium/Low %d",
				summary.Total, summary.Critical, summary.High, summary.MediumLow),
		}),
	)
	bar.SetXAxis(labels).AddSeries("Findings", data)
	return bar
}

func teamPie(view finding.Table) *charts.Pie {
	buckets := report.CountByTeam(view)

	data := make([]opts.PieData, 0, len(buckets))
	for _, b := range buckets {
		data = append(data, opts.PieData{Name: b.Label, Value: b.Count})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Team Distribution"}),
	)
	pie.AddSeries("Teams", data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

package report

import (
	"fmt"
	"html/template"
	"strings"
)

// WeeklyRow is one tracked system's line in the trailing-week report:
// DayTotals[i] is the summed NPC kills of the day labeled Labels[i].
type WeeklyRow struct {
	Name      string
	DayTotals []int64
}

type weeklyView struct {
	Labels []string
	Rows   []weeklyRowView
}

type weeklyRowView struct {
	Name  string
	Icons []template.URL
}

var weeklyTemplate = template.Must(template.New("weekly").Parse(`<!doctype html>
<html lang='en'>
<head>
	<meta charset='UTF-8'>
	<title>Ratting Report</title>
</head>
<style>
	body {
		font-family: 'gg sans', 'Noto Sans', 'Helvetica Neue', Helvetica, Arial, sans-serif;
		background: #313338;
		color: #ffffff;
		width: 520px;
	}
	table {
		border-collapse: collapse;
		width: 100%;
	}
	table, th, td {
		border: 1px solid #707070;
	}
	td, th {
		text-align: center;
		padding-left: 2px;
		height: 25px;
	}
	img {
		width: 20px;
		height: 20px;
	}
</style>
<body>
<h3>Last 7 days report</h3>
<table>
	<tr>
		<th style='width: 50px'>System</th>
{{- range .Labels }}
		<th style='width: 40px'>{{ . }}</th>
{{- end }}
	</tr>
{{- range .Rows }}
	<tr>
		<td>{{ .Name }}</td>
	{{- range .Icons }}
		<td><img src='{{ . }}' alt=''></td>
	{{- end }}
	</tr>
{{- end }}
</table>
</body>
</html>`))

// BuildWeeklyReport renders the trailing-week table: one column per day
// label, each cell the status icon for that single day's kill total.
func BuildWeeklyReport(labels []string, rows []WeeklyRow, t Thresholds) (string, error) {
	view := weeklyView{Labels: labels}
	for _, row := range rows {
		if len(row.DayTotals) != len(labels) {
			return "", fmt.Errorf("row %s has %d day totals for %d labels", row.Name, len(row.DayTotals), len(labels))
		}

		icons := make([]template.URL, 0, len(row.DayTotals))
		for _, total := range row.DayTotals {
			icons = append(icons, Classify(total, t).Icon())
		}
		view.Rows = append(view.Rows, weeklyRowView{Name: row.Name, Icons: icons})
	}

	var builder strings.Builder
	if err := weeklyTemplate.Execute(&builder, view); err != nil {
		return "", err
	}
	return builder.String(), nil
}

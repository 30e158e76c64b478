// Package report builds the HTML markup of the published report images. The
// markup is styled to blend into the Discord dark theme and is rasterized by
// the renderer before posting.
package report

import (
	"html/template"
	"strconv"
	"strings"
)

// StatusRow is one tracked system's line in the current-status report, in
// configured system order.
type StatusRow struct {
	Name         string
	Occupancy    float64
	OneHourKills int64
	SixHourKills int64
	DayKills     int64
}

type statusRowView struct {
	Name     string
	Adm      string
	OneHour  int64
	SixHours int64
	Day      int64
	Icon     template.URL
}

var statusTemplate = template.Must(template.New("status").Parse(`<!doctype html>
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
		width: 450px;
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
		image-rendering: pixelated;
		width: 20px;
		height: 20px;
	}
</style>
<body>
<h3>Ratting Stats (NPC Killed)</h3>
<table>
	<tr>
		<th style='width: 50px'>System</th>
		<th style='width: 36px'>ADM</th>
		<th style='width: 40px'>1H</th>
		<th style='width: 40px'>6H</th>
		<th style='width: 40px'>24H</th>
		<th style='width: 34px'>Status</th>
	</tr>
{{- range . }}
	<tr>
		<td>{{ .Name }}</td>
		<td>{{ .Adm }}</td>
		<td>{{ .OneHour }}</td>
		<td>{{ .SixHours }}</td>
		<td>{{ .Day }}</td>
		<td><img src='{{ .Icon }}' alt=''></td>
	</tr>
{{- end }}
</table>
</body>
</html>`))

// BuildStatusReport renders the current-status table: one row per tracked
// system with ADM, raw 1h kills and the trailing 6h/24h aggregates. The icon
// classifies the 24h aggregate.
func BuildStatusReport(rows []StatusRow, t Thresholds) (string, error) {
	views := make([]statusRowView, 0, len(rows))
	for _, row := range rows {
		views = append(views, statusRowView{
			Name:     row.Name,
			Adm:      strconv.FormatFloat(row.Occupancy, 'f', -1, 64),
			OneHour:  row.OneHourKills,
			SixHours: row.SixHourKills,
			Day:      row.DayKills,
			Icon:     Classify(row.DayKills, t).Icon(),
		})
	}

	var builder strings.Builder
	if err := statusTemplate.Execute(&builder, views); err != nil {
		return "", err
	}
	return builder.String(), nil
}

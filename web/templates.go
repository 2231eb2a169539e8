package web

import (
	"html/template"
)

var fragments = template.Must(template.New("fragments").Parse(`
{{define "heading"}}<h2>{{.}}</h2>{{end}}

{{define "table"}}<table class="{{.Class}}">
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody>
</table>{{end}}

{{define "dataframe"}}<div class="grid">{{template "table" .}}<p class="count">{{.Count}} rows</p></div>{{end}}

{{define "chart"}}<figure class="chart chart-{{.Spec.Kind}}">
{{.SVG}}
{{if .Legend}}<ul class="legend">{{range .Legend}}<li><span class="swatch" style="background: {{.Color}}"></span>{{.Name}}</li>{{end}}</ul>{{end}}
{{if .Points}}<details><summary>Points</summary><table class="static">
<thead><tr><th>label</th><th>{{.Spec.XLabel}}</th><th>{{.Spec.YLabel}}</th></tr></thead>
<tbody>{{range .Points}}<tr><td>{{.Label}}</td><td>{{.X}}</td><td>{{.Y}}</td></tr>{{end}}</tbody>
</table></details>{{end}}
</figure>{{end}}

{{define "error"}}<div class="error" role="alert">Error: {{.}}</div>{{end}}
`))

var paneTmpl = template.Must(template.New("pane").Parse(`<div id="pane">
{{with .Analysis}}
{{if .Options}}<fieldset class="options"><legend>Select Option</legend>
{{range $i, $o := .Options}}<label><input type="radio" name="option" value="{{$i}}" data-bind:option data-on:change="@get('/analysis/{{$.Analysis.ID}}')"{{if eq $i $.Selection.Option}} checked{{end}}> {{$o}}</label>
{{end}}</fieldset>{{end}}
{{if eq .Input "keyword"}}<form class="input" data-on:submit__prevent="@get('/analysis/{{.ID}}')">
<label>{{.Prompt}} <input type="text" name="input" data-bind:input value="{{$.Selection.Input}}"></label>
<button type="submit">Search</button></form>{{end}}
{{if eq .Input "sql"}}<form class="input" data-on:submit__prevent="@get('/analysis/{{.ID}}')">
<label>{{.Prompt}} (table name : {{$.Table}}):<br><textarea name="input" rows="6" data-bind:input>{{$.Selection.Input}}</textarea></label>
<button type="submit">Run</button></form>{{end}}
{{end}}
{{range .Blocks}}{{.}}
{{end}}</div>`))

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"></script>
<style>
body { display: flex; margin: 0; font-family: sans-serif; }
aside { width: 18rem; padding: 1rem; background: #f0f2f6; min-height: 100vh; }
main { flex: 1; padding: 1rem 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: .25rem .5rem; text-align: left; }
.grid { max-height: 28rem; overflow: auto; }
.error { background: #ffe9e9; color: #7d1a1a; padding: .75rem; border-radius: .25rem; }
.legend { list-style: none; display: flex; gap: 1rem; padding: 0; }
.swatch { display: inline-block; width: .8rem; height: .8rem; margin-right: .3rem; }
</style>
</head>
<body data-signals='{{.Signals}}'>
<aside>
<form method="get" action="/">
<label for="analysis">Select Analysis</label>
<select id="analysis" name="analysis" data-bind:analysis data-on:change="$option = 0; $input = ''; @get('/analysis/' + $analysis)">
{{range .Analyses}}<option value="{{.ID}}"{{if eq .ID $.Selection.Analysis}} selected{{end}}>{{.Label}}</option>
{{end}}</select>
<noscript><button type="submit">Go</button></noscript>
</form>
</aside>
<main>
<h1>{{.Title}}</h1>
{{.Pane}}
</main>
</body>
</html>`))

package frontend

import "html/template"

var overviewPageTemplate = template.Must(template.New("overview").Parse(`
<html>
<head><title>logscan</title></head>
<body>
	<h1>logscan</h1>
	<p>The current snapshot covers {{.count}} records.</p>
	<form action="{{.takeEndpoint}}" method="GET">
		<input type="text" name="n" placeholder="number of records"/>
		<input type="submit" value="Take"/>
	</form>
</body>
</html>`))

var takePageTemplate = template.Must(template.New("take").Parse(`
<html>
<head><title>logscan - take {{.n}}</title></head>
<body>
	<h1>First {{.n}} records</h1>
	<p><a href="{{.overviewEndpoint}}">back to overview</a></p>
	<table border="1">
		<tr><th>Partition</th><th>Seq No</th><th>Timestamp</th><th>Value</th></tr>
		{{range .results}}
		<tr>
			<td>{{.Partition}}</td>
			<td>{{.SeqNo}}</td>
			<td>{{.Timestamp}}</td>
			<td>{{.Value}}</td>
		</tr>
		{{end}}
	</table>
</body>
</html>`))

var msgPageTemplate = template.Must(template.New("msg").Parse(`
<html>
<head><title>logscan</title></head>
<body>
	<h1>{{.messageTitle}}</h1>
	<p>{{.messageContent}}</p>
	<p><a href="{{.overviewEndpoint}}">back to overview</a></p>
</body>
</html>`))

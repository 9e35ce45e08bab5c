package handlers

import "html/template"

const invitationPage = "invitation"

const invalidInvitationMessage = "this invitation is no longer valid"

// Pages holds the server-rendered pages collaborators reach from email links.
// The router installs it with SetHTMLTemplate.
var Pages = template.Must(template.New(invitationPage).Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
{{if .Booking}}<p>{{.Booking.Service.Name}} for {{.Booking.ClientName}} on {{.When}}</p>{{end}}
{{if .Token}}<form method="post" action="/api/public/invitations/{{.Token}}/confirm">
<button type="submit">Accept booking</button>
</form>{{end}}
</body>
</html>
`))

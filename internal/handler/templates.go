package handler

import "html/template"

const lobbyPageName = "lobby"

var pageTemplate = template.Must(template.New(lobbyPageName).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Chat Rooms</title>
</head>
<body>
<h1>Chat Rooms</h1>
<p class="viewer">Signed in as {{.Viewer}}</p>
{{range .Alerts}}<div class="alert" role="alert">{{.}}</div>
{{end}}
{{with .Confirm}}<form class="confirm" method="post" action="/rooms/{{.RoomID}}/delete">
<p>{{.Message}}</p>
<button type="submit" name="confirm" value="yes">Yes</button>
<button type="submit" name="confirm" value="no">No</button>
</form>
{{end}}
<form class="create" method="post" action="/rooms">
<input type="text" name="name" placeholder="Room name">
<button type="submit">Create Room</button>
</form>
<div id="rooms">
{{if .Placeholder}}<p class="placeholder">{{.Placeholder}}</p>
{{end}}
{{range .Cards}}<div class="room" id="room-{{.Row.ID}}">
{{if eq .State.String "editing"}}<form method="post" action="/rooms/{{.Row.ID}}/edit">
<input type="text" name="name" value="{{.Draft}}">
<button type="submit">Save</button>
</form>
<form method="post" action="/rooms/{{.Row.ID}}/cancel"><button type="submit">Cancel</button></form>
{{else}}<h3>{{.Row.Name}}</h3>
<p>Created by {{.Row.Creator}} on {{.Row.CreatedAt}}</p>
{{if .Row.CanJoin}}<form method="post" action="/rooms/{{.Row.ID}}/join"><button type="submit">Join</button></form>{{end}}
{{if .Row.CanEdit}}<a href="/rooms/{{.Row.ID}}/edit">Edit</a>{{end}}
{{if .Row.CanDelete}}<form method="post" action="/rooms/{{.Row.ID}}/delete"><button type="submit">Delete</button></form>{{end}}
{{end}}</div>
{{end}}
</div>
</body>
</html>
`))

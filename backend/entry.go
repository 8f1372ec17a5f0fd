package backend

import (
	"net/http"

	"github.com/wansing/blog/core"
)

const createSegment = "create"

var entriesTmpl = tmpl(`
	{{ if .Administrator }}
		<p><a class="btn btn-primary" href="entry/create">New entry</a></p>
	{{ end }}
	{{ range .Data }}
		<article class="mb-4">
			<h2><a href="entry/{{ .ID }}">{{ .Title }}</a></h2>
			<p class="text-muted">{{ $.FormatDateTime .Created }}</p>
			<p>{{ Teaser .Content }}</p>
		</article>
	{{ else }}
		<p>There are no entries yet.</p>
	{{ end }}`)

var entryTmpl = tmpl(`
	{{ with .Data }}
		<article>
			<h1>{{ .Title }}</h1>
			<p class="text-muted">{{ $.FormatDateTime .Created }}{{ if ne .Created .Updated }}, updated {{ $.FormatDateTime .Updated }}{{ end }}</p>
			{{ EntryHTML .Content }}
		</article>

		{{ if $.Administrator }}
			<p>
				<a class="btn btn-secondary" href="entry/{{ .ID }}/update">Edit</a>
				<form class="d-inline" method="post" action="entry/{{ .ID }}/delete">
					<button type="submit" class="btn btn-danger">Delete</button>
				</form>
			</p>
		{{ end }}

		<h2>Comments</h2>
		{{ $entryID := .ID }}
		{{ range .Comments }}
			<div class="card mb-2">
				<div class="card-body">
					<p class="text-muted">{{ .Author.Login }}, {{ $.FormatDateTime .Created }}</p>
					{{ CommentHTML .Content }}
					{{ if $.LoggedIn }}
						<details>
							<summary>Edit</summary>
							<form method="post" action="entry/{{ $entryID }}/comment/{{ .ID }}/update">
								<textarea class="form-control" name="content" rows="3">{{ .Content }}</textarea>
								<button type="submit" class="btn btn-secondary mt-1">Save</button>
							</form>
						</details>
					{{ end }}
				</div>
			</div>
		{{ else }}
			<p>No comments yet.</p>
		{{ end }}

		{{ if $.LoggedIn }}
			<form method="post" action="entry/{{ .ID }}/comment/create">
				<div class="form-group">
					<textarea class="form-control" name="content" rows="3" required></textarea>
				</div>
				<button type="submit" class="btn btn-primary">Comment</button>
			</form>
		{{ end }}
	{{ end }}`)

var entryFormTmpl = tmpl(`
	{{ with .Data }}
		<h1>Edit entry</h1>
		<form method="post" action="entry/{{ .ID }}/update">
	{{ else }}
		<h1>New entry</h1>
		<form method="post" action="entry/create">
	{{ end }}
		<div class="form-group">
			<label>Title</label>
			<input type="text" class="form-control" name="title" value="{{ with .Data }}{{ .Title }}{{ end }}">
		</div>
		<div class="form-group">
			<label>Content (Markdown)</label>
			<textarea class="form-control" name="content" rows="15">{{ with .Data }}{{ .Content }}{{ end }}</textarea>
		</div>
		<button type="submit" class="btn btn-primary">Save</button>
	</form>`)

func (srv *server) viewOrCreateForm(s *core.Session, req *core.Request) core.Outcome {
	if req.Param("id") == createSegment {
		return srv.db.EntryForm(s, req, core.Create)
	}
	return srv.db.ViewEntry(s, req)
}

func (srv *server) createEntry(s *core.Session, req *core.Request) core.Outcome {
	if req.Param("id") != createSegment {
		return core.Status(http.StatusNotFound)
	}
	return srv.db.SubmitEntry(s, req, core.Create)
}

func (srv *server) updateForm(s *core.Session, req *core.Request) core.Outcome {
	return srv.db.EntryForm(s, req, core.Update(req.Param("id")))
}

func (srv *server) updateEntry(s *core.Session, req *core.Request) core.Outcome {
	return srv.db.SubmitEntry(s, req, core.Update(req.Param("id")))
}

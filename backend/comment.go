package backend

import (
	"net/http"

	"github.com/wansing/blog/core"
)

// commentParams maps the route parameters of the comment routes to the names of the core.
func commentParams(req *core.Request) {
	req.Params["entryID"] = req.Params["id"]
	req.Params["id"] = req.Params["comment"]
	delete(req.Params, "comment")
}

func (srv *server) createComment(s *core.Session, req *core.Request) core.Outcome {
	if req.Param("comment") != createSegment {
		return core.Status(http.StatusNotFound)
	}
	commentParams(req)
	return srv.db.SubmitComment(s, req, core.Create)
}

func (srv *server) updateComment(s *core.Session, req *core.Request) core.Outcome {
	commentParams(req)
	return srv.db.SubmitComment(s, req, core.Update(req.Param("id")))
}

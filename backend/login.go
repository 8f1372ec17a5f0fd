package backend

import (
	"github.com/wansing/blog/core"
)

var loginTmpl = tmpl(`<h1>Login</h1>
	<form method="post" action="login" style="max-width: 20rem; margin: auto;">
		<div class="form-group">
			<label>Login</label>
			<input type="text" class="form-control" name="login" required autofocus>
		</div>
		<div class="form-group">
			<label>Password</label>
			<input type="password" class="form-control" name="password" required>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary">Login</button>
		</div>
	</form>`)

func loginPage(s *core.Session, req *core.Request) core.Outcome {
	return core.LoginPage()
}

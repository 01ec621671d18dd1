package client

// Access classifies a client route.
type Access int

const (
	AccessPublic Access = iota
	AccessUser
	AccessAdmin
)

// Decision is the outcome of gating a navigation.
type Decision int

const (
	DecisionRender Decision = iota
	DecisionLoading
	DecisionRedirectLogin
	DecisionNotAuthorized
)

func (d Decision) String() string {
	switch d {
	case DecisionRender:
		return "render"
	case DecisionLoading:
		return "loading"
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionNotAuthorized:
		return "not-authorized"
	}
	return "unknown"
}

type Route struct {
	Path   string
	Access Access
}

// Routes lists the client's destinations. Paths not listed are public.
var Routes = []Route{
	{Path: "/", Access: AccessPublic},
	{Path: "/login", Access: AccessPublic},
	{Path: "/register", Access: AccessPublic},
	{Path: "/report", Access: AccessPublic},
	{Path: "/user/dashboard", Access: AccessUser},
	{Path: "/admin/dashboard", Access: AccessAdmin},
}

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

func RouteFor(path string) Route {
	for _, r := range Routes {
		if r.Path == path {
			return r
		}
	}
	return Route{Path: path, Access: AccessPublic}
}

// Decide gates a navigation. Public routes render in every session state;
// protected routes wait for a pending revalidation before deciding.
func Decide(state SessionState, route Route) Decision {
	if route.Access == AccessPublic {
		return DecisionRender
	}
	if state.Loading {
		return DecisionLoading
	}
	if !state.Authenticated() {
		return DecisionRedirectLogin
	}
	if route.Access == AccessAdmin && !state.User.Role.IsAdmin() {
		return DecisionNotAuthorized
	}
	return DecisionRender
}

func DecidePath(state SessionState, path string) Decision {
	return Decide(state, RouteFor(path))
}

// Package guard decides, from the path and the visitor identity alone,
// whether a page renders or which path the visitor is sent to instead.
package guard

import (
	"strings"

	"github.com/trezcool/eduhelp/core/session"
)

type Route string

// Routes
const (
	Home      Route = "home"
	About     Route = "about"
	Services  Route = "services"
	Payment   Route = "payment"
	Portfolio Route = "portfolio"
	Dashboard Route = "dashboard"
	Login     Route = "login"
	Signup    Route = "signup"
	Admin     Route = "admin"
	Unmatched Route = "unmatched"
)

// Paths
const (
	HomePath      = "/"
	AboutPath     = "/about"
	ServicesPath  = "/services"
	PaymentPath   = "/payment"
	PortfolioPath = "/portfolio"
	DashboardPath = "/dashboard"
	LoginPath     = "/login"
	SignupPath    = "/signup"
	AdminPath     = "/admin"
)

var routes = map[string]Route{
	HomePath:      Home,
	AboutPath:     About,
	ServicesPath:  Services,
	PaymentPath:   Payment,
	PortfolioPath: Portfolio,
	DashboardPath: Dashboard,
	LoginPath:     Login,
	SignupPath:    Signup,
	AdminPath:     Admin,
}

// Outcome is either a render or a redirect to a path.
type Outcome struct {
	Render   bool   `json:"render"`
	Redirect string `json:"redirect,omitempty"`
}

func render() Outcome              { return Outcome{Render: true} }
func redirect(path string) Outcome { return Outcome{Redirect: path} }

func (o Outcome) String() string {
	if o.Render {
		return "render"
	}
	return "redirect " + o.Redirect
}

// Resolve maps a request path to its route. The query string and a trailing slash are ignored.
func Resolve(path string) Route {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = HomePath
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if r, ok := routes[path]; ok {
		return r
	}
	return Unmatched
}

// Decide applies the access rules of a route to an identity (nil when anonymous).
func Decide(route Route, id *session.Identity) Outcome {
	switch route {
	case Home, About, Services, Payment, Portfolio:
		return render()
	case Dashboard:
		if id != nil && !id.IsAdmin {
			return render()
		}
		return redirect(LoginPath)
	case Login:
		switch {
		case id == nil:
			return render()
		case id.IsAdmin:
			return redirect(AdminPath)
		default:
			return redirect(DashboardPath)
		}
	case Signup:
		if id != nil {
			return redirect(DashboardPath)
		}
		return render()
	case Admin:
		if id != nil && id.IsAdmin {
			return render()
		}
		return redirect(LoginPath)
	}
	return redirect(HomePath)
}

func Evaluate(path string, id *session.Identity) Outcome {
	return Decide(Resolve(path), id)
}

// Rule is one row of the decision table.
type Rule struct {
	Route     Route
	Path      string
	Condition string
	Outcome   Outcome
}

// Table lists the decision table for the anonymous, student and admin visitors.
func Table() []Rule {
	visitors := []struct {
		cond string
		id   *session.Identity
	}{
		{cond: "anonymous"},
		{cond: "student", id: &session.Identity{Email: "student@example.com"}},
		{cond: "admin", id: &session.Identity{Email: "admin@example.com", IsAdmin: true}},
	}
	paths := []string{
		HomePath, AboutPath, ServicesPath, PaymentPath, PortfolioPath,
		DashboardPath, LoginPath, SignupPath, AdminPath,
	}

	rules := make([]Rule, 0, (len(paths)+1)*len(visitors))
	for _, p := range paths {
		for _, v := range visitors {
			rules = append(rules, Rule{Route: routes[p], Path: p, Condition: v.cond, Outcome: Decide(routes[p], v.id)})
		}
	}
	rules = append(rules, Rule{Route: Unmatched, Path: "*", Condition: "any", Outcome: Decide(Unmatched, nil)})
	return rules
}

// Package access is the pure decision layer mapping a session onto the
// navigation links and routes it may reach. The route table is closed-world:
// anything not mapped here is denied.
package access

import (
	"github.com/studentsphere/portal/core/session"
	"github.com/studentsphere/portal/core/user"
)

// Routes
const (
	RouteHome    = "/"
	RouteAbout   = "/about"
	RouteContact = "/contact"
	RouteLogin   = "/login"
	RouteLogout  = "/logout"
	RouteAdmin   = "/admin"
	RouteTeacher = "/teacher"
	RouteStudent = "/student"
)

// NavLink is a single navigation destination, in display order.
type NavLink struct {
	Label string `json:"label"`
	Route string `json:"route"`
}

var (
	publicLinks = []NavLink{
		{Label: "Home", Route: RouteHome},
		{Label: "About", Route: RouteAbout},
		{Label: "Contact", Route: RouteContact},
	}
	loginLink  = NavLink{Label: "Login", Route: RouteLogin}
	logoutLink = NavLink{Label: "Logout", Route: RouteLogout}

	// roleLinks maps each role to its single role-specific destination;
	// 1:1 and exhaustive over the closed Role set.
	roleLinks = map[user.Role]NavLink{
		user.RoleAdmin:   {Label: "Admin Page", Route: RouteAdmin},
		user.RoleTeacher: {Label: "Teacher Page", Route: RouteTeacher},
		user.RoleStudent: {Label: "Student Page", Route: RouteStudent},
	}

	publicRoutes = map[string]bool{
		RouteHome:    true,
		RouteAbout:   true,
		RouteContact: true,
		RouteLogin:   true,
	}
)

// RolePage returns the route a role lands on after login.
func RolePage(role user.Role) (string, bool) {
	link, ok := roleLinks[role]
	return link.Route, ok
}

// ResolveLinks computes the ordered navigation for a session. A nil session
// is anonymous: it gets the public links plus Login and nothing role-specific.
func ResolveLinks(sess *session.Session) []NavLink {
	links := make([]NavLink, 0, len(publicLinks)+2)
	links = append(links, publicLinks...)

	if sess == nil {
		return append(links, loginLink)
	}
	if link, ok := roleLinks[sess.Role]; ok {
		links = append(links, link)
	}
	return append(links, logoutLink)
}

// CanAccess reports whether the session may reach the given route. Public
// routes are always reachable; a role-gated route only by the one role mapped
// to it; unmapped routes are denied.
func CanAccess(sess *session.Session, route string) bool {
	if publicRoutes[route] {
		return true
	}
	if sess == nil {
		return false
	}
	link, ok := roleLinks[sess.Role]
	return ok && link.Route == route
}

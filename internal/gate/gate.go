// Package gate decides, per navigation, whether the visitor sees the public
// auth pages or the authenticated dashboard shell.
package gate

import "sync"

// Mode is the render mode for the current navigation target.
type Mode int

const (
	// ModeResolving is the transient state entered on every navigation while
	// the decision is pending. It is always visited, even though the check is
	// currently a plain set-membership test, so the contract does not change
	// when a real authentication check replaces it.
	ModeResolving Mode = iota
	// ModePublic renders only the page content, no dashboard chrome.
	ModePublic
	// ModeAuthenticated renders the full shell (header + sidebar) around the page.
	ModeAuthenticated
)

func (m Mode) String() string {
	switch m {
	case ModePublic:
		return "public"
	case ModeAuthenticated:
		return "authenticated"
	default:
		return "resolving"
	}
}

// publicRoutes is the fixed set of paths reachable without a session.
// Membership is exact string match, never prefix match.
var publicRoutes = map[string]struct{}{
	"/login":           {},
	"/register":        {},
	"/forgot-password": {},
	"/password-reset":  {},
}

// SidebarBreakpoint is the viewport width below which the side navigation
// auto-collapses.
const SidebarBreakpoint = 768

// Gate tracks the render mode for the current route plus the sidebar layout
// state. The gating decision looks only at route membership; it deliberately
// does not consult the session token, matching the shipped dashboard: a
// visitor with no session on a non-public route still gets the authenticated
// chrome.
type Gate struct {
	mu          sync.Mutex
	mode        Mode
	route       string
	gen         uint64
	sidebarOpen bool
	subs        []func(Mode)
}

func New() *Gate {
	return &Gate{mode: ModeResolving, sidebarOpen: true}
}

// Mode returns the current render mode.
func (g *Gate) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// Route returns the navigation target the gate last saw.
func (g *Gate) Route() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.route
}

// Subscribe registers fn to run on every mode transition, including the
// re-entry into ModeResolving at each navigation.
func (g *Gate) Subscribe(fn func(Mode)) {
	g.mu.Lock()
	g.subs = append(g.subs, fn)
	g.mu.Unlock()
}

// Navigate re-enters ModeResolving for the new target and resolves the final
// mode on a separate goroutine. A generation counter drops resolutions for
// superseded navigations so a slow resolve cannot clobber a newer route.
func (g *Gate) Navigate(path string) {
	g.mu.Lock()
	g.route = path
	g.gen++
	gen := g.gen
	g.setModeLocked(ModeResolving)
	g.mu.Unlock()

	go g.resolve(path, gen)
}

func (g *Gate) resolve(path string, gen uint64) {
	mode := ModeAuthenticated
	if _, ok := publicRoutes[path]; ok {
		mode = ModePublic
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.gen {
		return
	}
	g.setModeLocked(mode)
}

// setModeLocked updates the mode and fires subscribers. Callers hold g.mu;
// subscriber callbacks must not call back into the gate.
func (g *Gate) setModeLocked(m Mode) {
	g.mode = m
	for _, fn := range g.subs {
		fn(m)
	}
}

// SidebarOpen reports the current sidebar state.
func (g *Gate) SidebarOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sidebarOpen
}

// Resize applies the viewport width: below the breakpoint the sidebar
// auto-collapses, at or above it re-opens. Fired once at mount and again on
// every resize event by the embedding shell.
func (g *Gate) Resize(width int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sidebarOpen = width >= SidebarBreakpoint
}

// ToggleSidebar flips the manual open/close control. Not persisted.
func (g *Gate) ToggleSidebar() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sidebarOpen = !g.sidebarOpen
}

// Package router tracks which single screen of the student app or the staff
// dashboard is visible, together with the selection state scoped to it.
package router

import (
	"campus-food/internal/apperr"
)

// View names a screen
type View string

const (
	ViewHome     View = "home"
	ViewMenu     View = "menu"
	ViewSearch   View = "search"
	ViewTracking View = "tracking"
	ViewHistory  View = "history"

	ViewOrders    View = "orders"
	ViewInventory View = "inventory"
	ViewAnalytics View = "analytics"
)

// Selection is the view-scoped state: the outlet and category of the menu
// view and the query of the search view
type Selection struct {
	OutletID string `json:"outletId,omitempty"`
	Category string `json:"category"`
	Query    string `json:"query,omitempty"`
}

// LeaveFunc is called after the router moved from one view to another
type LeaveFunc func(from, to View)

// Router is a single-selection state machine over a fixed set of views.
// It is not safe for concurrent use.
type Router struct {
	views     []View
	parents   map[View]View
	current   View
	selection Selection
	onLeave   []LeaveFunc
}

// NewStudent creates the router of the ordering app, starting at home
func NewStudent() *Router {
	return &Router{
		views: []View{ViewHome, ViewMenu, ViewSearch, ViewTracking, ViewHistory},
		parents: map[View]View{
			ViewMenu:     ViewHome,
			ViewSearch:   ViewHome,
			ViewTracking: ViewHome,
			ViewHistory:  ViewHome,
		},
		current:   ViewHome,
		selection: Selection{Category: "all"},
	}
}

// NewStaff creates the router of the staff dashboard, starting at orders
func NewStaff() *Router {
	return &Router{
		views:     []View{ViewOrders, ViewInventory, ViewAnalytics},
		parents:   map[View]View{},
		current:   ViewOrders,
		selection: Selection{Category: "all"},
	}
}

// OnLeave registers fn to run on every transition
func (r *Router) OnLeave(fn LeaveFunc) {
	r.onLeave = append(r.onLeave, fn)
}

// Current returns the visible view
func (r *Router) Current() View {
	return r.current
}

// IsVisible reports whether v is the visible view
func (r *Router) IsVisible(v View) bool {
	return r.current == v
}

// Selection returns the current view-scoped selection
func (r *Router) Selection() Selection {
	return r.selection
}

// SwitchTo hides every view but v and resets the selection scoped to the view
// being left
func (r *Router) SwitchTo(v View) error {
	if !r.knows(v) {
		return apperr.Validation("router.SwitchTo", "unknown view %q", v)
	}
	from := r.current
	if from != v {
		r.resetScope(from)
	}
	r.current = v
	if from != v {
		for _, fn := range r.onLeave {
			fn(from, v)
		}
	}
	return nil
}

// Back moves to the fixed parent of the current view. Views without a parent stay put.
func (r *Router) Back() View {
	if parent, ok := r.parents[r.current]; ok {
		_ = r.SwitchTo(parent)
	}
	return r.current
}

// OpenMenu shows the menu of outletID with the category filter reset
func (r *Router) OpenMenu(outletID string) error {
	if err := r.SwitchTo(ViewMenu); err != nil {
		return err
	}
	r.selection.OutletID = outletID
	r.selection.Category = "all"
	return nil
}

// SelectCategory narrows the menu view. It is only valid while the menu is visible.
func (r *Router) SelectCategory(category string) error {
	if r.current != ViewMenu {
		return apperr.InvalidState("router.SelectCategory", string(r.current), "category filter needs the menu view")
	}
	if category == "" {
		category = "all"
	}
	r.selection.Category = category
	return nil
}

// OpenSearch shows the search view for query
func (r *Router) OpenSearch(query string) error {
	if err := r.SwitchTo(ViewSearch); err != nil {
		return err
	}
	r.selection.Query = query
	return nil
}

func (r *Router) resetScope(leaving View) {
	switch leaving {
	case ViewMenu:
		r.selection.OutletID = ""
		r.selection.Category = "all"
	case ViewSearch:
		r.selection.Query = ""
	}
}

func (r *Router) knows(v View) bool {
	for _, known := range r.views {
		if known == v {
			return true
		}
	}
	return false
}

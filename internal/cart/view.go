package cart

import (
	"context"
	"fmt"
)

// LineView is a cart line resolved against the catalog for display
type LineView struct {
	ItemID        string `json:"itemId"`
	Name          string `json:"name"`
	UnitPrice     int64  `json:"unitPrice"`
	Quantity      int    `json:"quantity"`
	Customization string `json:"customizations,omitempty"`
	Subtotal      int64  `json:"subtotal"`
}

// View is the derived cart data a presentation layer renders
type View struct {
	OutletID string     `json:"outletId,omitempty"`
	Lines    []LineView `json:"lines"`
	Count    int        `json:"count"`
	Subtotal int64      `json:"subtotal"`
	Total    int64      `json:"total"`
}

// Preview is the short cart summary: the first few lines and how many are hidden
type Preview struct {
	Lines     []LineView `json:"lines"`
	Remaining int        `json:"remaining"`
	Total     int64      `json:"total"`
}

// View resolves every line and computes totals
func (m *Manager) View(ctx context.Context) (*View, error) {
	v := &View{Lines: make([]LineView, 0, len(m.lines)), Count: m.Count()}
	for _, line := range m.lines {
		item, err := m.items.MenuItemByID(ctx, line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cart line: %w", err)
		}
		if v.OutletID == "" {
			v.OutletID = item.OutletID
		}
		sub, err := lineSubtotal(item.Price, line.Quantity)
		if err != nil {
			return nil, err
		}
		lv := LineView{
			ItemID:        line.ItemID,
			Name:          item.Name,
			UnitPrice:     item.Price,
			Quantity:      line.Quantity,
			Customization: line.Customization,
			Subtotal:      sub,
		}
		if v.Subtotal, err = addAmount(v.Subtotal, sub); err != nil {
			return nil, err
		}
		v.Lines = append(v.Lines, lv)
	}
	v.Total = v.Subtotal
	return v, nil
}

// Preview returns at most n lines of the cart view
func (m *Manager) Preview(ctx context.Context, n int) (*Preview, error) {
	v, err := m.View(ctx)
	if err != nil {
		return nil, err
	}
	p := &Preview{Lines: v.Lines, Total: v.Total}
	if len(p.Lines) > n {
		p.Remaining = len(p.Lines) - n
		p.Lines = p.Lines[:n]
	}
	return p, nil
}

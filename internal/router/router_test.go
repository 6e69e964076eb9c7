package router

import (
	"errors"
	"testing"

	"campus-food/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentStartsAtHome(t *testing.T) {
	r := NewStudent()
	assert.Equal(t, ViewHome, r.Current())
	assert.True(t, r.IsVisible(ViewHome))
	assert.False(t, r.IsVisible(ViewMenu))
	assert.Equal(t, "all", r.Selection().Category)
}

func TestLeavingMenuResetsSelection(t *testing.T) {
	r := NewStudent()

	require.NoError(t, r.OpenMenu("cafe"))
	require.NoError(t, r.SelectCategory("Beverages"))
	assert.Equal(t, Selection{OutletID: "cafe", Category: "Beverages"}, r.Selection())

	require.NoError(t, r.SwitchTo(ViewHistory))
	assert.Equal(t, Selection{Category: "all"}, r.Selection())
}

func TestSwitchToSameViewKeepsSelection(t *testing.T) {
	r := NewStudent()
	require.NoError(t, r.OpenMenu("cafe"))
	require.NoError(t, r.SelectCategory("Desserts"))

	require.NoError(t, r.SwitchTo(ViewMenu))
	assert.Equal(t, "Desserts", r.Selection().Category)
}

func TestSearchQueryScopedToSearchView(t *testing.T) {
	r := NewStudent()
	require.NoError(t, r.OpenSearch("latte"))
	assert.Equal(t, "latte", r.Selection().Query)

	assert.Equal(t, ViewHome, r.Back())
	assert.Empty(t, r.Selection().Query)
}

func TestUnknownViewRejected(t *testing.T) {
	r := NewStudent()
	err := r.SwitchTo(ViewInventory)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Equal(t, ViewHome, r.Current())
}

func TestBackUsesFixedParent(t *testing.T) {
	r := NewStudent()
	for _, v := range []View{ViewMenu, ViewSearch, ViewTracking, ViewHistory} {
		require.NoError(t, r.SwitchTo(v))
		assert.Equal(t, ViewHome, r.Back())
	}
	assert.Equal(t, ViewHome, r.Back())

	staff := NewStaff()
	require.NoError(t, staff.SwitchTo(ViewInventory))
	assert.Equal(t, ViewInventory, staff.Back())
}

func TestSelectCategoryOutsideMenu(t *testing.T) {
	r := NewStudent()
	err := r.SelectCategory("Beverages")
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
}

func TestOnLeaveHooks(t *testing.T) {
	r := NewStudent()
	var transitions [][2]View
	r.OnLeave(func(from, to View) {
		transitions = append(transitions, [2]View{from, to})
	})

	require.NoError(t, r.SwitchTo(ViewTracking))
	require.NoError(t, r.SwitchTo(ViewTracking))
	require.NoError(t, r.SwitchTo(ViewHome))

	assert.Equal(t, [][2]View{{ViewHome, ViewTracking}, {ViewTracking, ViewHome}}, transitions)
}

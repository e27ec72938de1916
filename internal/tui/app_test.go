package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/scenario"
	"github.com/theirongolddev/fcast/internal/tui/components"
)

func nightMarket() model.FinancialModel {
	return model.FinancialModel{
		Name:     "Night Market",
		Duration: model.Duration{Unit: model.UnitMonthly, Length: 6},
		RevenueStreams: []model.RevenueStream{
			{Name: "Tickets", BaseValue: 10, Role: model.RoleTicket},
			{Name: "Sponsorship", BaseValue: 500},
		},
		CostCategories: []model.CostCategory{
			{Name: "Venue", BaseValue: 400},
		},
		Event: model.EventMetadata{
			InitialAttendance: 100,
			Growth:            model.GrowthConfig{AttendanceRate: 10},
		},
		Marketing: model.MarketingConfig{
			Channels: []model.MarketingChannel{
				{Name: "Social", Budget: 600},
				{Name: "Print", Budget: 300, Policy: model.PolicyUpfront},
			},
		},
	}
}

// loadedApp returns an app that has received its first comparison.
func loadedApp(t *testing.T, opts Options) App {
	t.Helper()
	a := NewApp(opts)
	msg := computeCmd(a.baseline, a.deltaSets(), 2)()
	m, _ := a.Update(msg)
	m, _ = m.(App).Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	return m.(App)
}

func press(t *testing.T, a App, key string) App {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, _ := a.Update(msg)
	return m.(App)
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i, tab := range components.Tabs {
			w := len(tab.Name) + 2
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < n-1 {
				pos++ // separator
			}
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("x past the last tab -> %d, want -1", got)
		}
	}
}

func TestComputedSelectsPrimary(t *testing.T) {
	a := loadedApp(t, Options{Baseline: nightMarket()})

	require.True(t, a.loaded)
	require.Len(t, a.cmp.Scenarios, 3)
	require.Len(t, a.models, 3)
	assert.Equal(t, scenario.Realistic, a.cmp.Scenarios[a.selected].Name)
	assert.True(t, a.cmp.Scenarios[a.selected].Primary)
}

func TestSavedDeltasAreCompared(t *testing.T) {
	a := loadedApp(t, Options{
		Baseline: nightMarket(),
		Saved:    []model.ScenarioDeltas{{Name: "Half price", Pricing: -50}},
	})
	require.Len(t, a.cmp.Scenarios, 4)
	assert.Equal(t, "Half price", a.cmp.Scenarios[3].Name)
}

func TestKeyNavigation(t *testing.T) {
	a := loadedApp(t, Options{Baseline: nightMarket()})

	a = press(t, a, "s")
	assert.Equal(t, tabScenarios, a.activeTab)
	a = press(t, a, "right")
	assert.Equal(t, tabBreakdown, a.activeTab)
	a = press(t, a, "left")
	a = press(t, a, "left")
	assert.Equal(t, tabForecast, a.activeTab)
	a = press(t, a, "left")
	assert.Equal(t, tabDeltas, a.activeTab, "left wraps around")

	start := a.selected
	a = press(t, a, "j")
	assert.Equal(t, start+1, a.selected)
	a = press(t, a, "j")
	a = press(t, a, "j")
	assert.Equal(t, 2, a.selected, "selection clamps to the last scenario")
	a = press(t, a, "p")
	assert.Equal(t, start, a.selected)
}

func TestHelpToggle(t *testing.T) {
	a := loadedApp(t, Options{Baseline: nightMarket()})
	a = press(t, a, "?")
	require.True(t, a.showHelp)
	assert.Contains(t, a.View(), "Keyboard Shortcuts")
	a = press(t, a, "x")
	assert.False(t, a.showHelp)
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadedApp(t, Options{Baseline: nightMarket()})

	for tab, want := range map[string]string{
		"f": "Periods",
		"s": scenario.Pessimistic,
		"b": "Marketing channels",
		"d": "Delta sets",
	} {
		a = press(t, a, tab)
		view := a.View()
		assert.Contains(t, view, want, "tab %s", tab)
		assert.Equal(t, a.height, strings.Count(view, "\n")+1, "tab %s fills the terminal", tab)
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := loadedApp(t, Options{Baseline: nightMarket()})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.(App).View(), "Terminal too narrow")
}

func TestDeltaValues(t *testing.T) {
	v := deltaValues{marketing: "10", pricing: "-5.5%", attendance: " ", cogs: "2"}
	d := v.deltas("Custom 1")
	assert.Equal(t, "Custom 1", d.Name)
	assert.Equal(t, model.Percent(10), d.MarketingSpend)
	assert.Equal(t, model.Percent(-5.5), d.Pricing)
	assert.True(t, d.AttendanceGrowth.IsZero())
	assert.Equal(t, model.Percent(2), d.COGS)

	assert.NoError(t, validatePercent(""))
	assert.NoError(t, validatePercent("12.5%"))
	assert.Error(t, validatePercent("lots"))
	assert.Error(t, validatePercent("NaN"))
}

func TestOpenDeltaFormOnlyOnDeltasTab(t *testing.T) {
	a := loadedApp(t, Options{Baseline: nightMarket()})
	a = press(t, a, "n")
	assert.Nil(t, a.deltaForm)

	a = press(t, a, "d")
	a = press(t, a, "n")
	require.NotNil(t, a.deltaForm)
	require.NotNil(t, a.deltaVals)
	assert.Contains(t, a.View(), "New delta set")
}

func TestSaveLatestWithoutStore(t *testing.T) {
	a := loadedApp(t, Options{Baseline: nightMarket()})
	assert.Nil(t, a.saveLatestCmd(), "nothing to save yet")

	a.custom = []model.ScenarioDeltas{{Name: "Bold", Pricing: 20}}
	msg, ok := a.saveLatestCmd()().(SavedMsg)
	require.True(t, ok)
	assert.Equal(t, "Bold", msg.Name)
	assert.Error(t, msg.Err)

	m, _ := a.Update(msg)
	assert.Contains(t, m.(App).notice, "Could not save")
}

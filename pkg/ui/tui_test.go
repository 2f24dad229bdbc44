package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/aura-yield/business/yield/domain"
)

func testCycle(number uint64, apy string) *domain.Cycle {
	return &domain.Cycle{
		Number:    number,
		Block:     19_000_000 + number,
		StartedAt: time.Now(),
		Duration:  1500 * time.Millisecond,
		Results: []domain.ApyResult{{
			Pool: "aurabal",
			Kind: domain.KindStaked,
			APY:  decimal.RequireFromString(apy),
			TVL:  decimal.NewFromInt(63_072_000),
		}},
		Failures: []domain.PoolFailure{{Pool: "broken", Error: "TVL_FAILED"}},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestPoolRows(t *testing.T) {
	rows := PoolRows(testCycle(2, "12.5"), map[string]decimal.Decimal{
		"aurabal": decimal.NewFromInt(10),
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "aurabal", rows[0].Name)
	assert.True(t, rows[0].HasChange)
	assert.True(t, rows[0].Change.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, rows[1].Failed)
	assert.Equal(t, "broken", rows[1].Name)
}

func TestModel_CycleMsgShowsDashboard(t *testing.T) {
	m := New()
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, CycleMsg{Cycle: testCycle(1, "9.87")})

	assert.Equal(t, PhaseDashboard, m.phase)
	assert.Equal(t, uint64(19_000_001), m.currentBlock)

	view := m.View()
	assert.True(t, strings.Contains(view, "aurabal"), "view should list the pool")
	assert.True(t, strings.Contains(view, "9.87"), "view should show the APY")
}

func TestModel_RefreshKey(t *testing.T) {
	called := make(chan struct{}, 1)
	OnRefresh = func() { called <- struct{}{} }
	t.Cleanup(func() { OnRefresh = nil })

	m := New()
	m.phase = PhaseDashboard
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.True(t, m.refreshing)

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("OnRefresh was not called")
	}

	// A second press while a cycle is running is ignored.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	select {
	case <-called:
		t.Fatal("OnRefresh called twice")
	case <-time.After(50 * time.Millisecond):
	}

	m = update(t, m, CycleMsg{Cycle: testCycle(1, "1")})
	assert.False(t, m.refreshing)
}

func TestModel_StartupCompletes(t *testing.T) {
	m := New()
	m.phase = PhaseStartup
	for _, step := range startupOrder {
		m = update(t, m, StartupMsg{Step: step, Status: "done"})
	}
	assert.Equal(t, PhaseDashboard, m.phase)
}

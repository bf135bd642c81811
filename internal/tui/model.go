// Package tui implements the interactive terminal dashboard: a tabbed view
// over loans, incoming requests, cash flow and period reports, with key-driven
// accept/reject/settle actions on synced loans.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/udhaarapp/udhaar/internal/engine"
	"github.com/udhaarapp/udhaar/internal/model"
	"github.com/udhaarapp/udhaar/internal/report"
)

// Tab identifies the active dashboard view.
type Tab int

const (
	TabOverview Tab = iota
	TabLoans
	TabCashFlow
	TabReports
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabLoans:
		return "Loans"
	case TabCashFlow:
		return "Cash Flow"
	case TabReports:
		return "Reports"
	default:
		return "?"
	}
}

// Model holds the dashboard state. The engine is the single source of truth;
// the model re-reads its collections after every mutation or sync instead of
// keeping its own copy of the records.
type Model struct {
	ctx      context.Context
	eng      *engine.Engine
	keymap   KeyMap
	help     help.Model
	loans    []model.Loan
	income   []model.Income
	expenses []model.Expense
	period   report.Period
	status   string
	lastErr  error
	tab      Tab
	cursor   int
	width    int
	height   int
	syncing  bool
	quitting bool
}

func newModel(ctx context.Context, eng *engine.Engine) Model {
	m := Model{
		ctx:    ctx,
		eng:    eng,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		period: report.PeriodMonthly,
	}
	m.reload()
	return m
}

// reload re-reads the engine's collections.
func (m *Model) reload() {
	m.loans = m.eng.Loans()
	m.income = m.eng.Income()
	m.expenses = m.eng.Expenses()
	if m.cursor >= len(m.loans) {
		m.cursor = max(0, len(m.loans)-1)
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case syncDoneMsg:
		m.syncing = false
		if msg.err != nil {
			m.lastErr = msg.err
			m.status = ""
		} else {
			m.lastErr = nil
			m.status = fmt.Sprintf("Synced: %d fetched, %d new, %d updated, %d removed",
				msg.result.Fetched, msg.result.Added, msg.result.Updated, msg.result.Removed)
		}
		m.reload()

	case actionDoneMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			m.status = ""
		} else {
			m.lastErr = nil
			m.status = "Loan " + msg.verb
		}
		m.reload()
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keymap

	switch {
	case key.Matches(msg, k.ForceQuit), key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, k.NextTab):
		m.tab = (m.tab + 1) % tabCount
		m.cursor = 0

	case key.Matches(msg, k.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.cursor = 0

	case key.Matches(msg, k.Up):
		if m.tab == TabLoans && m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, k.Down):
		if m.tab == TabLoans && m.cursor < len(m.loans)-1 {
			m.cursor++
		}

	case key.Matches(msg, k.Refresh):
		if !m.syncing {
			m.syncing = true
			m.status = "Syncing..."
			m.lastErr = nil
			return m, m.syncCmd()
		}

	case key.Matches(msg, k.Period):
		if m.tab == TabReports {
			m.period = nextPeriod(m.period)
		}

	case key.Matches(msg, k.Accept):
		return m.loanAction(model.StatusActive)

	case key.Matches(msg, k.Reject):
		return m.loanAction(model.StatusRejected)

	case key.Matches(msg, k.Settle):
		if loan := m.selectedLoan(); loan != nil {
			return m, m.actionCmd("settled", func() error {
				return m.eng.MarkReturned(m.ctx, loan.ID)
			})
		}

	case key.Matches(msg, k.Confirm):
		if loan := m.selectedLoan(); loan != nil && loan.Status == model.StatusSettledPending {
			return m, m.actionCmd("settlement confirmed", func() error {
				return m.eng.ConfirmSettle(m.ctx, loan.RemoteID)
			})
		}
	}

	return m, nil
}

// loanAction resolves the selected incoming request, accepting or rejecting
// it on the shared ledger.
func (m Model) loanAction(outcome model.LoanStatus) (tea.Model, tea.Cmd) {
	loan := m.selectedLoan()
	if loan == nil || !loan.Pending() || loan.CreatedByUser(m.eng.UserID()) {
		return m, nil
	}

	remoteID := loan.RemoteID
	if outcome == model.StatusActive {
		return m, m.actionCmd("accepted", func() error {
			return m.eng.AcceptLoan(m.ctx, remoteID)
		})
	}
	return m, m.actionCmd("rejected", func() error {
		return m.eng.RejectLoan(m.ctx, remoteID)
	})
}

func (m Model) selectedLoan() *model.Loan {
	if m.tab != TabLoans || m.cursor < 0 || m.cursor >= len(m.loans) {
		return nil
	}
	loan := m.loans[m.cursor]
	return &loan
}

func (m Model) syncCmd() tea.Cmd {
	return func() tea.Msg {
		result, err := m.eng.SyncLoans(m.ctx)
		return syncDoneMsg{result: result, err: err}
	}
}

func (m Model) actionCmd(verb string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{verb: verb, err: fn()}
	}
}

func nextPeriod(p report.Period) report.Period {
	switch p {
	case report.PeriodDaily:
		return report.PeriodWeekly
	case report.PeriodWeekly:
		return report.PeriodMonthly
	case report.PeriodMonthly:
		return report.PeriodAll
	default:
		return report.PeriodDaily
	}
}

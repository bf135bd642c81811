package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/udhaarapp/udhaar/internal/cli"
	"github.com/udhaarapp/udhaar/internal/model"
	"github.com/udhaarapp/udhaar/internal/report"
)

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(cli.SubtleColor)

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(cli.PrimaryColor).
			Underline(true)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(cli.SuccessColor)

	contentStyle = lipgloss.NewStyle().
			Padding(1, 2)
)

func (m Model) render() string {
	var body string
	switch m.tab {
	case TabOverview:
		body = m.renderOverview()
	case TabLoans:
		body = m.renderLoans()
	case TabCashFlow:
		body = m.renderCashFlow()
	case TabReports:
		body = m.renderReports()
	}

	sections := []string{
		m.renderTabs(),
		contentStyle.Render(body),
		m.renderStatus(),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTabs() string {
	var tabs []string
	for t := Tab(0); t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}
	title := cli.TitleStyle.UnsetMargins().Render(cli.MoneyIcon + " udhaar")
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderStatus() string {
	switch {
	case m.lastErr != nil:
		return cli.FormatError(m.lastErr.Error())
	case m.syncing:
		return cli.WarningStyle.Render("Syncing with backend...")
	case m.status != "":
		return statusStyle.Render(m.status)
	default:
		return ""
	}
}

func (m Model) renderOverview() string {
	totals := report.Totals(m.loans)
	flow := report.CashFlow(m.income, m.expenses)

	var b strings.Builder
	b.WriteString(cli.BoldStyle.Render("Loan position") + "\n")
	fmt.Fprintf(&b, "  Given:  %s\n", totals.Given.StringFixed(2))
	fmt.Fprintf(&b, "  Taken:  %s\n", totals.Taken.StringFixed(2))
	fmt.Fprintf(&b, "  Net:    %s\n\n", cli.FormatAmount(totals.Net))

	b.WriteString(cli.BoldStyle.Render("Cash flow") + "\n")
	fmt.Fprintf(&b, "  Income:   %s\n", flow.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "  Expenses: %s\n", flow.TotalExpense.StringFixed(2))
	fmt.Fprintf(&b, "  Net:      %s\n", cli.FormatAmount(flow.Net))

	if requests := report.PendingRequests(m.loans, m.eng.UserID()); len(requests) > 0 {
		b.WriteString("\n" + cli.FormatWarning(fmt.Sprintf("%d incoming loan request(s); review them on the Loans tab", len(requests))))
	}
	if settling := report.SettlementRequests(m.loans); len(settling) > 0 {
		b.WriteString("\n" + cli.FormatWarning(fmt.Sprintf("%d settlement(s) awaiting confirmation", len(settling))))
	}
	return b.String()
}

func (m Model) renderLoans() string {
	if len(m.loans) == 0 {
		return cli.SubtleStyle.Render("No loans recorded. Add one with: udhaar loan add")
	}

	var b strings.Builder
	for i, loan := range m.loans {
		prefix := "  "
		line := m.loanLine(loan)
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
			line = cursorStyle.Render(line)
		}
		b.WriteString(prefix + line + "\n")
	}

	if loan := m.selectedLoan(); loan != nil {
		b.WriteString("\n" + m.loanHint(loan))
	}
	return b.String()
}

func (m Model) loanLine(loan model.Loan) string {
	amount := loan.Amount
	if loan.Direction == model.DirectionTaken {
		amount = amount.Neg()
	}

	badge := ""
	switch {
	case loan.Returned || loan.Status == model.StatusSettled:
		badge = cli.SubtleStyle.Render(" [settled]")
	case loan.Status == model.StatusSettledPending:
		badge = cli.WarningStyle.Render(" [settling]")
	case loan.Pending() && loan.CreatedByUser(m.eng.UserID()):
		badge = cli.WarningStyle.Render(" [awaiting counterparty]")
	case loan.Pending():
		badge = cli.WarningStyle.Render(" [incoming request]")
	}

	mark := " "
	if loan.IsSynced {
		mark = "⇄"
	}

	return fmt.Sprintf("%s %s %-20s %s%s",
		loan.Date.Format("2006-01-02"), mark, loan.Name, cli.FormatAmount(amount), badge)
}

// loanHint tells the user which keys apply to the highlighted loan.
func (m Model) loanHint(loan *model.Loan) string {
	switch {
	case loan.Pending() && !loan.CreatedByUser(m.eng.UserID()):
		return cli.SubtleStyle.Render("a accept · x reject")
	case loan.Status == model.StatusSettledPending:
		return cli.SubtleStyle.Render("c confirm settlement")
	case !loan.Settled() && loan.Status != model.StatusPending:
		return cli.SubtleStyle.Render("s mark as settled")
	default:
		return ""
	}
}

func (m Model) renderCashFlow() string {
	if len(m.income) == 0 && len(m.expenses) == 0 {
		return cli.SubtleStyle.Render("No income or expenses recorded yet.")
	}

	var b strings.Builder
	b.WriteString(cli.BoldStyle.Render("Income") + "\n")
	for _, entry := range limitIncome(m.income) {
		fmt.Fprintf(&b, "  %s  %-20s %s\n",
			entry.Date.Format("2006-01-02"), entry.Source, cli.FormatAmount(entry.Amount))
	}
	b.WriteString("\n" + cli.BoldStyle.Render("Expenses") + "\n")
	for _, entry := range limitExpenses(m.expenses) {
		fmt.Fprintf(&b, "  %s  %-20s %s\n",
			entry.Date.Format("2006-01-02"), entry.Category, cli.FormatAmount(entry.Amount.Neg()))
	}
	return b.String()
}

// maxRows keeps the scrollless lists readable on small terminals.
const maxRows = 12

func limitIncome(entries []model.Income) []model.Income {
	if len(entries) > maxRows {
		return entries[:maxRows]
	}
	return entries
}

func limitExpenses(entries []model.Expense) []model.Expense {
	if len(entries) > maxRows {
		return entries[:maxRows]
	}
	return entries
}

func (m Model) renderReports() string {
	now := time.Now()
	stats := report.PeriodStats(m.income, m.expenses, m.period, now)
	top := report.TopCategories(m.expenses, m.period, now)

	var b strings.Builder
	fmt.Fprintf(&b, "%s (press p to change)\n\n", cli.BoldStyle.Render("Period: "+string(m.period)))
	fmt.Fprintf(&b, "  Income:       %s\n", stats.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "  Expenses:     %s\n", stats.TotalExpense.StringFixed(2))
	fmt.Fprintf(&b, "  Net:          %s\n", cli.FormatAmount(stats.Net))
	fmt.Fprintf(&b, "  Transactions: %d\n", stats.Transactions)

	if len(top) > 0 {
		b.WriteString("\n" + cli.BoldStyle.Render("Top spending categories") + "\n")
		for i, c := range top {
			fmt.Fprintf(&b, "  %d. %-20s %s\n", i+1, c.Category, c.Amount.StringFixed(2))
		}
	}
	return b.String()
}

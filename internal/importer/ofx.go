// Package importer parses bank OFX/QFX statements into income and expense
// entries, so a downloaded statement can seed the local collections.
package importer

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// Statement holds the entries recovered from one OFX file. Credits become
// income, debits become expenses; the caller assigns local identifiers when
// adding them through the engine.
type Statement struct {
	Income   []IncomeEntry
	Expenses []ExpenseEntry
}

// IncomeEntry is a credit line ready to add as income.
type IncomeEntry struct {
	Date   time.Time
	Source string
	Note   string
	Amount decimal.Decimal
}

// ExpenseEntry is a debit line ready to add as an expense.
type ExpenseEntry struct {
	Date     time.Time
	Category string
	Note     string
	Amount   decimal.Decimal
}

// Parser reads OFX/QFX statements.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// The closing tag is optional: SGML-flavored OFX 1.x omits it.
var severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)(</SEVERITY>)?`)

// preprocess fixes common formatting issues in OFX files before parsing.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	return severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
}

// Parse reads an OFX/QFX statement and splits its transactions into income
// and expense entries.
func (p *Parser) Parse(reader io.Reader) (*Statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	stmt := &Statement{}
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if bank, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if bank.BankTranList == nil {
				continue
			}
			for _, tx := range bank.BankTranList.Transactions {
				stmt.add(tx)
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if cc, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if cc.BankTranList == nil {
				continue
			}
			for _, tx := range cc.BankTranList.Transactions {
				stmt.add(tx)
			}
		}
	}

	slog.Info("Parsed OFX statement",
		"income_entries", len(stmt.Income),
		"expense_entries", len(stmt.Expenses),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)
	return stmt, nil
}

// add converts one OFX transaction. The amount sign decides the side: OFX
// uses negative amounts for debits.
func (s *Statement) add(tx ofxgo.Transaction) {
	amount := decimal.NewFromBigRat(&tx.TrnAmt.Rat, 2)
	label := payeeLabel(tx)
	note := strings.TrimSpace(string(tx.Memo))

	if amount.Sign() >= 0 {
		s.Income = append(s.Income, IncomeEntry{
			Date:   tx.DtPosted.Time,
			Source: label,
			Amount: amount,
			Note:   note,
		})
		return
	}

	s.Expenses = append(s.Expenses, ExpenseEntry{
		Date:     tx.DtPosted.Time,
		Category: categoryFor(tx, label),
		Amount:   amount.Neg(),
		Note:     note,
	})
}

// payeeLabel picks the cleanest counterparty label available.
func payeeLabel(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}
	name := strings.TrimSpace(string(tx.Name))
	if name == "" {
		name = strings.TrimSpace(string(tx.Memo))
	}
	if name == "" {
		name = "Unknown"
	}
	return name
}

// categoryFor infers a coarse expense category from the OFX transaction
// type, falling back to the payee label.
func categoryFor(tx ofxgo.Transaction, label string) string {
	switch fmt.Sprintf("%v", tx.TrnType) {
	case "FEE", "SRVCHG":
		return "Bank Fees"
	case "ATM", "CASH":
		return "Cash"
	case "CHECK":
		return "Check"
	default:
		return label
	}
}

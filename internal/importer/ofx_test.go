package importer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240101120000[0:GMT]
<TRNAMT>2500.00
<FITID>2024010101
<NAME>ACME PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
<MEMO>Coffee
</STMTTRN>
<STMTTRN>
<TRNTYPE>FEE
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-5.00
<FITID>2024012001
<NAME>MONTHLY SERVICE FEE
</STMTTRN>
<STMTTRN>
<TRNTYPE>ATM
<DTPOSTED>20240122120000[0:GMT]
<TRNAMT>-200.00
<FITID>2024012201
<NAME>ATM WITHDRAWAL
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParse_BankStatement(t *testing.T) {
	parser := NewParser()

	stmt, err := parser.Parse(strings.NewReader(sampleBankOFX))
	require.NoError(t, err)

	require.Len(t, stmt.Income, 1)
	require.Len(t, stmt.Expenses, 4)

	salary := stmt.Income[0]
	assert.Equal(t, "ACME PAYROLL", salary.Source)
	assert.True(t, salary.Amount.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, 2024, salary.Date.Year())

	coffee := stmt.Expenses[0]
	assert.Equal(t, "STARBUCKS STORE #1234", coffee.Category)
	assert.True(t, coffee.Amount.Equal(decimal.NewFromFloat(25.50)))
	assert.Equal(t, "Coffee", coffee.Note)

	// Transaction types map to coarse categories.
	assert.Equal(t, "Bank Fees", stmt.Expenses[1].Category)
	assert.Equal(t, "Cash", stmt.Expenses[2].Category)
	assert.Equal(t, "Check", stmt.Expenses[3].Category)

	// Expense amounts come out positive regardless of OFX sign convention.
	for _, e := range stmt.Expenses {
		assert.True(t, e.Amount.Sign() > 0)
	}
}

func TestParse_CreditCardStatement(t *testing.T) {
	parser := NewParser()

	stmt, err := parser.Parse(strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)

	assert.Empty(t, stmt.Income)
	require.Len(t, stmt.Expenses, 2)
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", stmt.Expenses[0].Category)
	assert.True(t, stmt.Expenses[0].Amount.Equal(decimal.NewFromFloat(45.99)))
}

func TestParse_InvalidInput(t *testing.T) {
	parser := NewParser()

	_, err := parser.Parse(strings.NewReader("not valid OFX"))
	assert.Error(t, err)

	_, err = parser.Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParse_FixesLowercaseSeverity(t *testing.T) {
	parser := NewParser()

	// Some banks emit <SEVERITY>Info</SEVERITY>, which strict parsers
	// reject.
	relaxed := strings.ReplaceAll(sampleBankOFX, "<SEVERITY>INFO", "<SEVERITY>Info")

	stmt, err := parser.Parse(strings.NewReader(relaxed))
	require.NoError(t, err)
	assert.Len(t, stmt.Expenses, 4)
}

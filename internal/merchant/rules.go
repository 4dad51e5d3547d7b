package merchant

import "fjacquet/ledger-import/internal/models"

// DefaultRules is the built-in merchant table. Order is significant: the
// first match wins, so AMAZON PRIME and TARGET COM below can never be
// reached. They stay to keep keys stable for existing learned data.
var DefaultRules = []models.MerchantRule{
	{Pattern: "STARBUCKS", Key: "STARBUCKS"},
	{Pattern: "TARGET", Key: "TARGET"},
	{Pattern: `AMZN|AMAZON`, Key: "AMAZON", Regex: true},
	{Pattern: `WAL ?MART|WM SUPERCENTER`, Key: "WALMART", Regex: true},
	{Pattern: "COSTCO", Key: "COSTCO"},
	{Pattern: "TRADER JOE", Key: "TRADER JOES"},
	{Pattern: "WHOLEFDS", Key: "WHOLE FOODS"},
	{Pattern: "WHOLE FOODS", Key: "WHOLE FOODS"},
	{Pattern: `SHELL (?:OIL|SERVICE)`, Key: "SHELL", Regex: true},
	{Pattern: "CHEVRON", Key: "CHEVRON"},
	{Pattern: `EXXON|MOBIL\b`, Key: "EXXONMOBIL", Regex: true},
	{Pattern: "NETFLIX", Key: "NETFLIX"},
	{Pattern: "SPOTIFY", Key: "SPOTIFY"},
	{Pattern: "UBER EATS", Key: "UBER EATS"},
	{Pattern: "UBER", Key: "UBER"},
	{Pattern: "LYFT", Key: "LYFT"},
	{Pattern: "DOORDASH", Key: "DOORDASH"},
	{Pattern: "VENMO", Key: "VENMO"},
	{Pattern: "ZELLE", Key: "ZELLE"},
	{Pattern: `PAYROLL|DIRECT DEP`, Key: "PAYROLL", Regex: true},
	{Pattern: "COMCAST", Key: "COMCAST"},
	{Pattern: "XFINITY", Key: "COMCAST"},
	{Pattern: "AMAZON PRIME", Key: "AMAZON PRIME"},
	{Pattern: "TARGET COM", Key: "TARGET ONLINE"},
}

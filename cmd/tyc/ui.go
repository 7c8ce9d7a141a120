package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"tycoon/internal/company"
	"tycoon/internal/game"
	"tycoon/internal/holdings"
	"tycoon/internal/market"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

// instrumentRow mirrors the API's instrument view; the server side carries an
// interface that cannot be decoded directly.
type instrumentRow struct {
	Instrument struct {
		ID        string  `json:"id"`
		Symbol    string  `json:"symbol"`
		Name      string  `json:"name"`
		MarketCap float64 `json:"market_cap"`
	} `json:"instrument"`
	Kind      market.Kind `json:"kind"`
	Price     float64     `json:"price"`
	ChangePct float64     `json:"change_pct"`
}

type instrumentsPayload struct {
	Instruments []instrumentRow `json:"instruments"`
}

type instrumentDetailPayload struct {
	instrumentRow
	History []market.PricePoint `json:"history"`
	Held    *holdings.Position  `json:"held,omitempty"`
	Owned   bool                `json:"owned"`
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptFloat(label string, min float64) (float64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			printWarn("Enter a valid number.")
			continue
		}
		if v <= min {
			printWarn(fmt.Sprintf("Value must be > %.2f", min))
			continue
		}
		return v, nil
	}
}

func promptInt64(label string, min int64) (int64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

func renderDashboard(raw map[string]any) error {
	st, err := decodeInto[game.State](raw)
	if err != nil {
		return err
	}
	money, _ := st.Money.Float64()
	accent.Printf("\n== DASHBOARD (Quarter %d, %s market) ==\n", st.CurrentQuarter, st.Trend)
	fmt.Printf("Money:              %s\n", formatMoney(money))
	fmt.Printf("Net Worth:          %s\n", formatMoney(st.NetWorth))
	fmt.Printf("Monthly Income:     %s\n", formatMoney(st.MonthlyIncome))
	fmt.Printf("Monthly Expenses:   %s\n", formatMoney(st.MonthlyExpenses))
	fmt.Printf("Company Value:      %s (%s)\n", formatMoney(st.Value), colorizePercent(st.DailyChange))
	fmt.Printf("Share Price:        %s\n", formatMoney(st.SharePrice))
	fmt.Printf("Ownership:          %.2f%%\n", st.Ownership)
	fmt.Printf("Holdings:           %d positions\n", len(st.Holdings))

	if len(st.Products) > 0 {
		fmt.Println()
		accent.Println("Products")
		fmt.Printf("%-16s %-24s %-14s %-12s %14s\n", "ID", "NAME", "CATEGORY", "STATUS", "REVENUE")
		for _, p := range st.Products {
			fmt.Printf("%-16s %-24s %-14s %-12s %14s\n",
				truncate(p.ID, 16),
				truncate(p.Name, 24),
				p.Category,
				p.Status,
				formatMoney(p.Revenue),
			)
		}
	}
	fmt.Println()
	return nil
}

func renderPortfolio(raw map[string]any) error {
	pf, err := decodeInto[game.PortfolioView](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== PORTFOLIO ==")
	fmt.Printf("Money:     %s\n", formatMoney(pf.Money))
	fmt.Printf("Holdings:  %s\n", formatMoney(pf.HoldingsValue))
	fmt.Printf("Net Worth: %s\n\n", formatMoney(pf.NetWorth))
	if len(pf.Positions) == 0 {
		printInfo("No open positions yet.")
		return nil
	}
	fmt.Printf("%-8s %-7s %12s %12s %12s %9s %14s %14s\n", "SYMBOL", "TYPE", "QTY", "AVG", "NOW", "DELTA%", "VALUE", "P/L")
	for _, p := range pf.Positions {
		deltaPct := 0.0
		if p.AverageCost != 0 {
			deltaPct = (p.Price - p.AverageCost) / p.AverageCost * 100
		}
		fmt.Printf("%-8s %-7s %12.4f %12s %12s %9s %14s %14s\n",
			p.Symbol,
			p.Type,
			p.Quantity,
			formatMoney(p.AverageCost),
			formatMoney(p.Price),
			colorizePercent(deltaPct),
			formatMoney(p.Value),
			colorizeMoney(p.Unrealized),
		)
	}
	fmt.Println()
	return nil
}

func renderInstruments(raw map[string]any) error {
	payload, err := decodeInto[instrumentsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== MARKET ==")
	if len(payload.Instruments) == 0 {
		printInfo("No instruments found.")
		return nil
	}
	fmt.Printf("%-8s %-7s %-28s %14s %9s\n", "SYMBOL", "TYPE", "NAME", "PRICE", "CHANGE")
	for _, in := range payload.Instruments {
		fmt.Printf("%-8s %-7s %-28s %14s %9s\n",
			in.Instrument.Symbol,
			in.Kind,
			truncate(in.Instrument.Name, 28),
			formatMoney(in.Price),
			colorizePercent(in.ChangePct),
		)
	}
	fmt.Println()
	return nil
}

func renderInstrumentDetail(raw map[string]any) error {
	d, err := decodeInto[instrumentDetailPayload](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== %s (%s) ==\n", d.Instrument.Symbol, d.Kind)
	fmt.Printf("Name:    %s\n", d.Instrument.Name)
	fmt.Printf("Price:   %s (%s)\n", formatMoney(d.Price), colorizePercent(d.ChangePct))
	if d.Instrument.MarketCap > 0 {
		fmt.Printf("Cap:     %s\n", formatMoney(d.Instrument.MarketCap))
	}
	if d.Owned {
		printSuccess("Owned as a subsidiary.")
	}
	if d.Held != nil {
		fmt.Printf("Held:    %.4f @ %s (P/L %s)\n", d.Held.Quantity, formatMoney(d.Held.AverageCost), colorizeMoney(d.Held.Unrealized))
	}
	if len(d.History) > 0 {
		fmt.Println()
		accent.Println("Quarterly history")
		for _, pt := range d.History {
			fmt.Printf("  Q%-4d %14s\n", pt.Quarter, formatMoney(pt.Price))
		}
	}
	fmt.Println()
	return nil
}

func renderTrade(raw map[string]any, side string) error {
	symbol, _ := raw["symbol"].(string)
	printSuccess(fmt.Sprintf("%s %.4f %s @ %s (total %s)",
		strings.ToUpper(side[:1])+side[1:],
		asFloat(raw["quantity"]),
		symbol,
		formatMoney(asFloat(raw["price"])),
		formatMoney(asFloat(raw["total"])),
	))
	return nil
}

func renderCompanyPayload(raw any) error {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	return renderCompany(m)
}

func renderCompany(raw map[string]any) error {
	if inner, ok := raw["company"].(map[string]any); ok {
		raw = inner
	}
	c, err := decodeInto[game.CompanyView](raw)
	if err != nil {
		return err
	}
	status := "private"
	if c.IsPublic {
		status = "public"
	}
	accent.Printf("\n== COMPANY (%s) ==\n", status)
	fmt.Printf("Value:          %s\n", formatMoney(c.Value))
	fmt.Printf("Share Price:    %s (%s)\n", formatMoney(c.SharePrice), colorizePercent(c.DailyChange))
	fmt.Printf("Capital:        %s\n", formatMoney(c.Capital))
	fmt.Printf("Debt:           %s (capacity %s)\n", formatMoney(c.Debt), formatMoney(c.BorrowCapacity))
	fmt.Printf("Revenue/mo:     %s\n", formatMoney(c.RevenueMonthly))
	fmt.Printf("Expenses/mo:    %s\n", formatMoney(c.ExpensesMonthly))
	fmt.Printf("Your Stake:     %.2f%% (%s)\n", c.Ownership, formatMoney(c.PlayerEquity))
	fmt.Printf("Staff:          %d employees, morale %.0f, %s pay\n", c.EmployeeCount, c.EmployeeMorale, c.SalaryTier)
	fmt.Printf("Factories:      %d\n", c.FactoryCount)
	fmt.Printf("Tech:           hw %d / sw %d / future %d\n", c.TechLevels.Hardware, c.TechLevels.Software, c.TechLevels.Future)

	if len(c.Subsidiaries) > 0 {
		fmt.Println()
		accent.Println("Subsidiaries")
		ids := make([]string, 0, len(c.Subsidiaries))
		for id := range c.Subsidiaries {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Printf("%-10s %-24s %14s %8s\n", "ID", "NAME", "PROFIT/MO", "STATE")
		for _, id := range ids {
			sub := c.Subsidiaries[id]
			state := success.Sprint("ok")
			if sub.IsLossMaking {
				state = danger.Sprint("loss")
			}
			fmt.Printf("%-10s %-24s %14s %8s\n", truncate(id, 10), truncate(sub.Name, 24), colorizeMoney(sub.CurrentProfit), state)
		}
	}
	fmt.Println()
	return printShareholders(c.Shareholders)
}

func renderShareholders(raw any) error {
	rows, err := decodeInto[[]company.Shareholder](raw)
	if err != nil {
		return err
	}
	return printShareholders(rows)
}

func printShareholders(rows []company.Shareholder) error {
	accent.Println("Shareholders")
	fmt.Printf("%-18s %-26s %-12s %9s %8s\n", "ID", "NAME", "TYPE", "PCT", "REL")
	for _, sh := range rows {
		rel := "-"
		if sh.Relationship != nil {
			rel = strconv.FormatFloat(*sh.Relationship, 'f', 0, 64)
		}
		fmt.Printf("%-18s %-26s %-12s %8.2f%% %8s\n", truncate(sh.ID, 18), truncate(sh.Name, 26), sh.Type, sh.Percentage, rel)
	}
	fmt.Println()
	return nil
}

func renderTick(raw map[string]any) error {
	r, err := decodeInto[company.TickReport](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== MONTH CLOSED ==")
	fmt.Printf("Revenue:        %s\n", formatMoney(r.Revenue))
	fmt.Printf("Expenses:       %s\n", formatMoney(r.Expenses))
	fmt.Printf("Subsidiaries:   %s\n", colorizeMoney(r.SubsidiaryNet))
	fmt.Printf("Profit:         %s\n", colorizeMoney(r.Profit))
	fmt.Printf("Morale:         %.1f (%+.1f)\n", r.Morale, r.MoraleDelta)
	fmt.Printf("Share Price:    %s (%s)\n", formatMoney(r.SharePrice), colorizePercent(r.PriceChangePct))
	fmt.Printf("Valuation:      %s\n\n", formatMoney(r.Valuation))
	return nil
}

func decodeInto[T any](in any) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

func colorizeMoney(v float64) string {
	text := formatMoney(v)
	switch {
	case v > 0:
		return success.Sprint("+" + text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func colorizePercent(v float64) string {
	text := fmt.Sprintf("%+.2f%%", v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func formatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := int64(math.Round(v * 100))
	return fmt.Sprintf("%s$%s.%02d", sign, comma(cents/100), cents%100)
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		b.WriteByte(',')
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

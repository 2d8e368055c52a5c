package research

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Shashank29160/AccountGen/internal/domain"
)

// Thresholds that drive the qualitative flags in the generated narrative.
const (
	highValuationPE  = 25
	lowValuationPE   = 15
	highGrowthPct    = 15
	highDividendPct  = 3
	maxGoals         = 7
	maxRisks         = 7
	maxOpportunities = 8
)

// buildCompanyData turns a raw source snapshot into the structured document.
// The templating is deterministic: the same snapshot always yields the same
// record.
func buildCompanyData(snap *Snapshot, queriedName string, now time.Time) domain.CompanyData {
	isHighValuation := snap.PERatio != nil && *snap.PERatio > highValuationPE
	isLowValuation := snap.PERatio != nil && *snap.PERatio < lowValuationPE
	isHighGrowth := snap.RevenueGrowth != nil && *snap.RevenueGrowth > highGrowthPct
	isProfitable := snap.ProfitMargin != nil && *snap.ProfitMargin > 0
	isHighDividend := snap.DividendYield != nil && *snap.DividendYield > highDividendPct

	var volatility *float64
	if snap.YearHigh != nil && snap.YearLow != nil && snap.CurrentPrice != nil && *snap.CurrentPrice != 0 {
		v := (*snap.YearHigh - *snap.YearLow) / *snap.CurrentPrice * 100
		volatility = &v
	}

	name := snap.Name
	if name == "" {
		name = queriedName
	}

	monthYear := now.Format("January 2006")

	return domain.CompanyData{
		Name:                 name,
		ExecutiveSummary:     buildExecutiveSummary(snap, monthYear, isHighValuation, isLowValuation, isHighGrowth, isProfitable),
		FinancialPerformance: buildFinancialPerformance(snap, monthYear, volatility, isHighValuation, isLowValuation, isHighGrowth, isProfitable, isHighDividend),
		KeyDecisionMakers:    buildDecisionMakers(snap),
		StrategicGoals:       buildStrategicGoals(snap, isHighGrowth, isHighValuation, isHighDividend),
		RisksOpportunities: domain.RisksOpportunities{
			Risks:         buildRisks(snap, volatility, isHighValuation, isProfitable),
			Opportunities: buildOpportunities(snap, isLowValuation, isHighGrowth, isHighDividend, isProfitable),
		},
	}
}

func buildExecutiveSummary(snap *Snapshot, monthYear string, isHighValuation, isLowValuation, isHighGrowth, isProfitable bool) string {
	if snap.Description != "" {
		summary := snap.Description
		if len(summary) > 400 {
			summary = summary[:400]
		}

		var context []string
		if snap.CurrentPrice != nil && snap.PriceChangePercent != nil {
			trend := "market challenges"
			verb := "declining"
			if *snap.PriceChangePercent > 0 {
				trend = "positive momentum"
				verb = "gaining"
			}
			context = append(context, fmt.Sprintf("As of %s, the company shows %s with its stock %s %.2f%%",
				monthYear, trend, verb, math.Abs(*snap.PriceChangePercent)))
		}
		if snap.MarketCap != nil {
			size := "small-cap"
			if *snap.MarketCap > 100e9 {
				size = "large-cap"
			} else if *snap.MarketCap > 10e9 {
				size = "mid-cap"
			}
			context = append(context, fmt.Sprintf("As a %s company with %s in market value", size, formatCurrency(snap.MarketCap)))
		}
		if len(context) > 0 {
			summary += " " + strings.Join(context, ", ") + "."
		}
		if len(snap.Description) > 400 {
			summary += "..."
		}
		return summary
	}

	var parts []string
	heading := snap.Name
	if snap.Symbol != "" {
		heading += fmt.Sprintf(" (%s)", snap.Symbol)
	}
	parts = append(parts, heading)

	switch {
	case snap.Sector != "" && snap.Industry != "":
		parts = append(parts, fmt.Sprintf("is a prominent player in the %s sector, specifically focusing on %s", snap.Sector, snap.Industry))
	case snap.Sector != "":
		parts = append(parts, fmt.Sprintf("operates within the %s sector", snap.Sector))
	}

	if snap.MarketCap != nil {
		formatted := formatCurrency(snap.MarketCap)
		switch {
		case *snap.MarketCap > 500e9:
			parts = append(parts, fmt.Sprintf("As one of the world's largest companies with a market capitalization of %s as of %s", formatted, monthYear))
		case *snap.MarketCap > 100e9:
			parts = append(parts, fmt.Sprintf("With a substantial market capitalization of %s", formatted))
		default:
			parts = append(parts, fmt.Sprintf("Maintains a market capitalization of %s", formatted))
		}
	}

	if snap.CurrentPrice != nil {
		price := []string{fmt.Sprintf("the company's stock trades at $%.2f", *snap.CurrentPrice)}
		if snap.PriceChangePercent != nil {
			pct := *snap.PriceChangePercent
			switch {
			case pct > 5:
				price = append(price, fmt.Sprintf("showing strong performance with a %.2f%% gain", pct))
			case pct > 0:
				price = append(price, fmt.Sprintf("up %.2f%%", pct))
			case pct < -5:
				price = append(price, fmt.Sprintf("facing headwinds with a %.2f%% decline", math.Abs(pct)))
			default:
				price = append(price, fmt.Sprintf("down %.2f%%", math.Abs(pct)))
			}
		}
		if snap.YearHigh != nil && snap.YearLow != nil {
			fromHigh := (*snap.YearHigh - *snap.CurrentPrice) / *snap.YearHigh * 100
			fromLow := (*snap.CurrentPrice - *snap.YearLow) / *snap.YearLow * 100
			if fromHigh < 10 {
				price = append(price, fmt.Sprintf("trading near its 52-week high of $%.2f", *snap.YearHigh))
			} else if fromLow < 10 {
				price = append(price, fmt.Sprintf("trading near its 52-week low of $%.2f", *snap.YearLow))
			}
		}
		parts = append(parts, strings.Join(price, ", "))
	}

	if snap.PERatio != nil {
		switch {
		case isHighValuation:
			parts = append(parts, fmt.Sprintf("The company commands a premium valuation with a P/E ratio of %.2f, reflecting investor confidence in its growth trajectory", *snap.PERatio))
		case isLowValuation:
			parts = append(parts, fmt.Sprintf("Trading at a P/E ratio of %.2f, the company presents a value-oriented investment opportunity", *snap.PERatio))
		default:
			parts = append(parts, fmt.Sprintf("With a P/E ratio of %.2f, the company is valued in line with market expectations", *snap.PERatio))
		}
	}

	if snap.ProfitMargin != nil {
		switch {
		case isProfitable && *snap.ProfitMargin > 20:
			parts = append(parts, fmt.Sprintf("The company demonstrates strong profitability with a profit margin of %.2f%%", *snap.ProfitMargin))
		case isProfitable:
			parts = append(parts, fmt.Sprintf("Maintains profitability with a %.2f%% profit margin", *snap.ProfitMargin))
		default:
			parts = append(parts, fmt.Sprintf("Currently operating at a %.2f%% loss margin as it invests in growth", math.Abs(*snap.ProfitMargin)))
		}
	}

	if snap.RevenueGrowth != nil {
		growth := *snap.RevenueGrowth
		switch {
		case isHighGrowth:
			parts = append(parts, fmt.Sprintf("The company is experiencing robust revenue growth of %.1f%%, positioning it well for continued expansion", growth))
		case growth > 0:
			parts = append(parts, fmt.Sprintf("Revenue growth of %.1f%% indicates steady business expansion", growth))
		case growth < 0:
			parts = append(parts, fmt.Sprintf("Facing revenue decline of %.1f%%, the company is navigating market challenges", math.Abs(growth)))
		}
	}

	if snap.Employees != nil {
		count := formatCount(snap.Employees)
		switch {
		case *snap.Employees > 100000:
			parts = append(parts, fmt.Sprintf("With a workforce of approximately %s employees, the company operates at a massive scale", count))
		case *snap.Employees > 10000:
			parts = append(parts, fmt.Sprintf("Employing around %s people, the company maintains significant operational capacity", count))
		default:
			parts = append(parts, fmt.Sprintf("The company employs approximately %s people", count))
		}
	}

	if snap.CEO != "" {
		parts = append(parts, fmt.Sprintf("Under the leadership of %s", snap.CEO))
	}
	if snap.Headquarters != "" {
		segments := strings.Split(snap.Headquarters, ",")
		if len(segments) > 2 {
			segments = segments[len(segments)-2:]
		}
		if location := strings.TrimSpace(strings.Join(segments, ",")); location != "" {
			parts = append(parts, fmt.Sprintf("headquartered in %s", location))
		}
	}

	return strings.Join(parts, ", ") + "."
}

func buildFinancialPerformance(snap *Snapshot, monthYear string, volatility *float64, isHighValuation, isLowValuation, isHighGrowth, isProfitable, isHighDividend bool) string {
	lines := []string{fmt.Sprintf("Financial Overview - %s:", monthYear), ""}

	if snap.CurrentPrice != nil {
		line := fmt.Sprintf("• Current Stock Price: $%.2f", *snap.CurrentPrice)
		if snap.PriceChange != nil && snap.PriceChangePercent != nil {
			line += fmt.Sprintf(" (%s$%.2f, %s%.2f%%)",
				sign(*snap.PriceChange), math.Abs(*snap.PriceChange),
				sign(*snap.PriceChangePercent), math.Abs(*snap.PriceChangePercent))
		}
		lines = append(lines, line)
	}
	if snap.MarketCap != nil {
		lines = append(lines, fmt.Sprintf("• Market Capitalization: %s", formatCurrency(snap.MarketCap)))
	}
	if snap.PERatio != nil {
		line := fmt.Sprintf("• P/E Ratio: %.2f", *snap.PERatio)
		if isHighValuation {
			line += " (High valuation - growth expectations)"
		} else if isLowValuation {
			line += " (Value stock)"
		}
		lines = append(lines, line)
	}
	if snap.DividendYield != nil {
		line := fmt.Sprintf("• Dividend Yield: %.2f%%", *snap.DividendYield)
		if isHighDividend {
			line += " (Attractive dividend)"
		}
		lines = append(lines, line)
	}
	if snap.YearHigh != nil && snap.YearLow != nil {
		line := fmt.Sprintf("• 52-Week Range: $%.2f - $%.2f", *snap.YearLow, *snap.YearHigh)
		if volatility != nil {
			line += fmt.Sprintf(" (%.1f%% volatility)", *volatility)
		}
		lines = append(lines, line)
	}
	if snap.Volume != nil {
		lines = append(lines, fmt.Sprintf("• Trading Volume: %s shares", formatCount(snap.Volume)))
	}
	if snap.Revenue != nil {
		line := fmt.Sprintf("• Revenue: %s", formatCurrency(snap.Revenue))
		if snap.RevenueGrowth != nil {
			line += fmt.Sprintf(" (%s%.1f%% growth", sign(*snap.RevenueGrowth), math.Abs(*snap.RevenueGrowth))
			if isHighGrowth {
				line += " - High growth company"
			}
			line += ")"
		}
		lines = append(lines, line)
	}
	if snap.ProfitMargin != nil {
		line := fmt.Sprintf("• Profit Margin: %.2f%%", *snap.ProfitMargin)
		if isProfitable {
			line += " (Profitable)"
		} else {
			line += " (Loss-making)"
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func buildDecisionMakers(snap *Snapshot) []string {
	ceo := "Chief Executive Officer - Oversees overall strategy and operations"
	if snap.CEO != "" {
		ceo = snap.CEO + " - Chief Executive Officer"
	}

	cto := "Chief Technology Officer - Oversees technology strategy"
	if snap.Sector == "Technology" || strings.Contains(strings.ToLower(snap.Industry), "tech") {
		cto = "Chief Technology Officer - Leads innovation and digital transformation"
	}

	return []string{
		ceo,
		"Chief Financial Officer - Manages financial planning and investor relations",
		"Chief Operating Officer - Drives operational excellence and execution",
		cto,
		"Chief Marketing Officer - Directs brand strategy and customer engagement",
		"VP of Corporate Development - Spearheads strategic partnerships and M&A",
	}
}

func buildStrategicGoals(snap *Snapshot, isHighGrowth, isHighValuation, isHighDividend bool) []string {
	var goals []string

	switch snap.Sector {
	case "Technology":
		industry := snap.Industry
		if industry == "" {
			industry = "technology solutions"
		}
		goals = append(goals,
			fmt.Sprintf("Accelerate innovation in %s", industry),
			"Scale cloud and AI capabilities",
			"Expand developer ecosystem and partnerships")
	case "Financial Services":
		goals = append(goals,
			"Enhance digital banking and fintech offerings",
			"Strengthen regulatory compliance and risk management",
			"Expand wealth management services")
	case "Healthcare":
		goals = append(goals,
			"Advance research and development pipeline",
			"Expand into emerging markets",
			"Enhance patient care through technology")
	case "":
	default:
		goals = append(goals, fmt.Sprintf("Strengthen market position in %s", snap.Sector))
	}

	if isHighGrowth {
		goals = append(goals, "Maintain high growth trajectory through market expansion")
	} else if snap.RevenueGrowth != nil {
		goals = append(goals, "Focus on operational efficiency and margin improvement")
	}
	if isHighValuation {
		goals = append(goals, "Deliver on growth expectations to justify valuation")
	}
	if snap.MarketCap != nil && *snap.MarketCap > 100e9 {
		goals = append(goals, "Leverage scale advantages for competitive positioning")
	}

	goals = append(goals,
		"Execute digital transformation initiatives",
		"Build sustainable competitive advantages",
		"Optimize customer experience and retention")
	if !isHighDividend {
		goals = append(goals, "Pursue strategic acquisitions and partnerships")
	}

	return capList(goals, maxGoals)
}

func buildRisks(snap *Snapshot, volatility *float64, isHighValuation, isProfitable bool) []string {
	var risks []string

	if volatility != nil && *volatility > 40 {
		risks = append(risks, fmt.Sprintf("High stock price volatility (%.1f%%) indicating market uncertainty", *volatility))
	}
	if isHighValuation {
		risks = append(risks, "Elevated valuation multiples creating downside risk if growth expectations are not met")
	}

	switch snap.Sector {
	case "Technology":
		risks = append(risks,
			"Rapid technology disruption requiring continuous innovation",
			"Cybersecurity threats and data privacy regulatory changes")
	case "Financial Services":
		risks = append(risks,
			"Regulatory changes and compliance requirements",
			"Interest rate sensitivity impacting profitability")
	case "Healthcare":
		risks = append(risks,
			"Regulatory approval processes and patent expirations",
			"Pricing pressure from payers and governments")
	}

	if !isProfitable && snap.ProfitMargin != nil {
		risks = append(risks, fmt.Sprintf("Current unprofitability (%.2f%% margin) requiring path to profitability", *snap.ProfitMargin))
	}
	if snap.RevenueGrowth != nil && *snap.RevenueGrowth < 0 {
		risks = append(risks, "Declining revenue growth indicating market challenges")
	}

	risks = append(risks,
		"Macroeconomic uncertainty impacting business operations",
		"Intensifying competitive pressure in the market",
		"Supply chain and operational disruptions",
		"Talent acquisition and retention challenges")

	return capList(risks, maxRisks)
}

func buildOpportunities(snap *Snapshot, isLowValuation, isHighGrowth, isHighDividend, isProfitable bool) []string {
	var opportunities []string

	if isLowValuation {
		opportunities = append(opportunities, "Attractive valuation creating potential for value appreciation")
	}
	if isHighGrowth {
		opportunities = append(opportunities, fmt.Sprintf("Strong revenue growth (%.1f%%) indicating market momentum", *snap.RevenueGrowth))
	}
	if isHighDividend {
		opportunities = append(opportunities, fmt.Sprintf("Attractive dividend yield (%.2f%%) for income-focused investors", *snap.DividendYield))
	}
	if snap.Sector != "" {
		opportunities = append(opportunities, fmt.Sprintf("Expanding market opportunities in %s sector", snap.Sector))
	}
	if snap.MarketCap != nil {
		if *snap.MarketCap < 10e9 {
			opportunities = append(opportunities, "Smaller market cap providing flexibility for strategic pivots")
		} else if *snap.MarketCap > 100e9 {
			opportunities = append(opportunities, "Large market cap enabling strategic M&A and market consolidation")
		}
	}
	if snap.PERatio != nil && *snap.PERatio < 20 && isProfitable {
		opportunities = append(opportunities, "Reasonable valuation with profitability creating investment appeal")
	}

	opportunities = append(opportunities,
		"Geographic expansion into emerging markets",
		"Product and service portfolio diversification",
		"Strategic partnerships and alliances",
		"Digital transformation enabling new business models",
		"Sustainability initiatives opening new market segments",
		"AI and automation driving efficiency gains")

	return capList(opportunities, maxOpportunities)
}

// formatCurrency renders a dollar amount with a magnitude suffix.
func formatCurrency(value *float64) string {
	if value == nil || *value == 0 {
		return "N/A"
	}
	v := *value
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// formatCount renders a plain count with a magnitude suffix.
func formatCount(value *float64) string {
	if value == nil || *value == 0 {
		return "N/A"
	}
	v := *value
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func sign(v float64) string {
	if v >= 0 {
		return "+"
	}
	return "-"
}

func capList(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

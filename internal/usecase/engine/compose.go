package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sarthakj1997/business-assistant/internal/domain"
)

const (
	// HistoryPlaceholder stands in for the conversation history when a
	// session has no prior turns.
	HistoryPlaceholder = "No previous conversation."

	// NoRelevantResults is returned verbatim when no semantic hit
	// clears the relevance threshold.
	NoRelevantResults = "No highly relevant results found."

	relevanceThreshold = 0.7

	semanticMaxTokens   = 300
	structuredMaxTokens = 400

	maxSources = 10
)

const semanticPrompt = `You are a business assistant answering questions about invoices and orders.

Previous conversation:
%s

Relevant invoice data:
%s

Question: %s

Answer using only the invoice data above. Be specific with numbers, dates and names. Maximum 3 sentences.

Answer:`

const structuredPrompt = `You are a business assistant answering questions about invoices and orders.

Previous conversation:
%s

Question: %s

Database results:
%s

Format the database results into a clear, direct answer. Don't mention it's from a database. Be specific with numbers, dates and names. Maximum 3 sentences.

Answer:`

// semanticContext renders the hits whose scores clear the relevance
// threshold as one context line each. It returns the empty string when
// nothing clears the bar.
func semanticContext(hits []domain.SearchHit) string {
	var lines []string
	for _, h := range hits {
		if h.Score <= relevanceThreshold {
			continue
		}
		lines = append(lines, contextLine(h.Record))
	}
	return strings.Join(lines, "\n")
}

func contextLine(r domain.VectorRecord) string {
	switch r.Type {
	case domain.TypeInvoice:
		if inv := r.Invoice; inv != nil {
			return fmt.Sprintf("Order %s for %s on %s, total %s, shipped to %s, %s.",
				r.OrderID, inv.ContactName, formatDate(inv.InvoiceDate), formatAmountString(inv.TotalPrice), inv.City, inv.Country)
		}
	case domain.TypeProductSummary:
		if ps := r.ProductSummary; ps != nil {
			return fmt.Sprintf("Order %s by %s contains: %s.", r.OrderID, ps.ContactName, strings.Join(ps.Products, ", "))
		}
	case domain.TypeLineItem:
		if li := r.LineItem; li != nil {
			return fmt.Sprintf("Order %s: %d x %s at %s each.",
				r.OrderID, li.Quantity, li.ProductName, formatAmountString(li.UnitPrice))
		}
	}
	return fmt.Sprintf("Order %s.", r.OrderID)
}

func formatAmountString(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "unknown date"
	}
	return t.Format("2006-01-02")
}

// serializeRows renders structured rows for the composition prompt.
func serializeRows(rows []domain.StructuredRow) string {
	if len(rows) == 0 {
		return "No structured data available"
	}
	if len(rows) == 1 && rows[0].IsError() {
		return "No structured data available"
	}
	buf, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "No structured data available"
	}
	return string(buf)
}

// formatSources converts the top hits into the citation records exposed
// in the response, capped at maxSources.
func formatSources(hits []domain.SearchHit) []domain.VectorSource {
	n := len(hits)
	if n > maxSources {
		n = maxSources
	}
	sources := make([]domain.VectorSource, 0, n)
	for i := 0; i < n; i++ {
		h := hits[i]
		src := domain.VectorSource{
			Rank:    i + 1,
			Score:   roundScore(h.Score),
			Type:    h.Record.Type,
			OrderID: h.Record.OrderID,
		}
		switch h.Record.Type {
		case domain.TypeInvoice:
			src.SourceID = strconv.FormatInt(h.Record.InvoiceID, 10)
			if inv := h.Record.Invoice; inv != nil {
				src.Customer = inv.ContactName
				src.Date = formatDate(inv.InvoiceDate)
				total := inv.TotalPrice
				src.Total = &total
			}
		case domain.TypeProductSummary:
			src.SourceID = h.Record.OrderID
			if ps := h.Record.ProductSummary; ps != nil {
				src.Customer = ps.ContactName
				src.Product = strings.Join(ps.Products, ", ")
			}
		case domain.TypeLineItem:
			src.SourceID = h.Record.OrderID
			if li := h.Record.LineItem; li != nil {
				src.Product = li.ProductName
				q := li.Quantity
				src.Quantity = &q
				price := li.UnitPrice
				src.Price = &price
			}
		}
		sources = append(sources, src)
	}
	return sources
}

func roundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}

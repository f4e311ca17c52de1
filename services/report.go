package services

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"inventory-catalog/models"
	"inventory-catalog/utils"
)

// ExportReport summarises an exported catalog.
type ExportReport struct {
	TotalItems      int
	ItemsWithImages int
	TotalImages     int
	MissingFolders  []string
	EmptyFolders    []string
	PricedItems     int
	AveragePrice    float64
	MinPrice        float64
	MaxPrice        float64
	MostExpensive   *models.CatalogItem
	ItemsByCategory map[string]int
	ItemsByRegion   map[string]int
	ItemsByCountry  map[string]int
	WithoutRegion   int
}

type ReportService struct {
	logger *utils.Logger
	out    io.Writer
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger, out: os.Stdout}
}

// NewReportServiceTo prints to w instead of stdout.
func NewReportServiceTo(logger *utils.Logger, w io.Writer) *ReportService {
	return &ReportService{logger: logger, out: w}
}

func (s *ReportService) Generate(catalog *models.Catalog) *ExportReport {
	report := &ExportReport{
		ItemsByCategory: make(map[string]int),
		ItemsByRegion:   make(map[string]int),
		ItemsByCountry:  make(map[string]int),
	}
	if catalog == nil || len(catalog.Items) == 0 {
		return report
	}

	report.TotalItems = len(catalog.Items)

	var total float64
	for i := range catalog.Items {
		it := &catalog.Items[i]

		report.TotalImages += len(it.Images)
		switch {
		case len(it.Images) > 0:
			report.ItemsWithImages++
		case it.ImageFolder == "":
			report.MissingFolders = append(report.MissingFolders, it.Code)
		default:
			report.EmptyFolders = append(report.EmptyFolders, it.Code)
		}

		report.ItemsByCategory[it.Category]++
		report.ItemsByCountry[it.LocationParsed.Country]++
		if it.LocationParsed.Region != "" {
			report.ItemsByRegion[it.LocationParsed.Region]++
		} else {
			report.WithoutRegion++
		}

		if it.Price == nil {
			continue
		}
		price := float64(*it.Price)
		if report.PricedItems == 0 || price < report.MinPrice {
			report.MinPrice = price
		}
		if report.PricedItems == 0 || price > report.MaxPrice {
			report.MaxPrice = price
			report.MostExpensive = it
		}
		report.PricedItems++
		total += price
	}

	if report.PricedItems > 0 {
		report.AveragePrice = round2(total / float64(report.PricedItems))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	if report.WithoutRegion > 0 {
		s.logger.Debug("[report] %d items have no region", report.WithoutRegion)
	}
	return report
}

func (s *ReportService) Print(r *ExportReport) {
	w := s.out
	sep := strings.Repeat("═", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📦 INVENTORY CATALOG EXPORT\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin())
	fmt.Fprintf(w, "  Items exported        : \033[1m%d\033[0m\n", r.TotalItems)
	fmt.Fprintf(w, "  Items with photos     : \033[1m%d\033[0m (%d images)\n", r.ItemsWithImages, r.TotalImages)
	fmt.Fprintf(w, "  No asset folder       : \033[1m%d\033[0m\n", len(r.MissingFolders))
	fmt.Fprintf(w, "  Folder without photos : \033[1m%d\033[0m\n", len(r.EmptyFolders))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Pricing\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin())
	if r.PricedItems > 0 {
		fmt.Fprintf(w, "  Priced items  : \033[1m%d\033[0m\n", r.PricedItems)
		fmt.Fprintf(w, "  Average price : \033[1;32m$%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m$%.2f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m$%.2f\033[0m\n", r.MaxPrice)
		if r.MostExpensive != nil {
			fmt.Fprintf(w, "  Top item      : %s %s\n", r.MostExpensive.Code, truncate(r.MostExpensive.Title, 38))
		}
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	s.printCounts("Items by Category", r.ItemsByCategory)
	s.printCounts("Items by Region", r.ItemsByRegion)
	s.printCounts("Items by Country", r.ItemsByCountry)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func (s *ReportService) printCounts(title string, counts map[string]int) {
	w := s.out
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", thin())
	if len(counts) == 0 {
		fmt.Fprintf(w, "  No data\n\n")
		return
	}
	for _, kc := range sortCounts(counts) {
		bar := strings.Repeat("█", min(kc.count, 30))
		fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(kc.key, 28), bar, kc.count)
	}
	fmt.Fprintln(w)
}

type keyCount struct {
	key   string
	count int
}

// sortCounts orders by count descending, then key.
func sortCounts(counts map[string]int) []keyCount {
	out := make([]keyCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, keyCount{k, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func thin() string { return strings.Repeat("─", 54) }

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

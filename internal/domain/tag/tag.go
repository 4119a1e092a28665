package tag

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
)

// Identifier formats (wire-exact, shared with printed labels and scanners):
//
//	unit tag:  {2-letter metal prefix}{YYYYMMDD}{4-digit random}   e.g. GO202609011234
//	barcode:   ITM-{productCode:4digits}-{YYYYMMDD}-{4-digit random}
//	invoice:   {YYYYMMDD}-{4-digit sequence}, sequence resets daily
//
// Random suffixes are retried on unique-constraint collision by the registry.

const dayLayout = "20060102"

// MetalPrefix returns the 2-letter tag prefix for a metal type.
func MetalPrefix(metalType string) string {
	mt := strings.ToUpper(metalType)
	switch mt {
	case entity.MetalGold:
		return "GO"
	case entity.MetalSilver:
		return "SI"
	case entity.MetalPlatinum:
		return "PL"
	}
	if len(mt) >= 2 {
		return mt[:2]
	}
	return "XX"
}

// UnitTag builds a unit tag for a metal type, day and 4-digit random suffix.
func UnitTag(metalType string, day time.Time, random int) string {
	return fmt.Sprintf("%s%s%04d", MetalPrefix(metalType), day.Format(dayLayout), random%10000)
}

// Barcode builds a unit barcode from the product's numeric code.
func Barcode(productCode int, day time.Time, random int) string {
	return fmt.Sprintf("ITM-%04d-%s-%04d", productCode%10000, day.Format(dayLayout), random%10000)
}

// InvoiceNumber builds an invoice number from the day and its daily sequence.
func InvoiceNumber(day time.Time, sequence int) string {
	return fmt.Sprintf("%s-%04d", day.Format(dayLayout), sequence%10000)
}

// Generator produces tags and barcodes with a pluggable random source so the
// registry can retry on collision and tests stay deterministic.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator seeds a generator from the current time.
func NewGenerator() *Generator {
	return &Generator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewGeneratorWithSeed builds a deterministic generator (tests).
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// NextUnitTag returns a fresh unit tag for the given metal and day.
func (g *Generator) NextUnitTag(metalType string, day time.Time) string {
	return UnitTag(metalType, day, g.rng.Intn(10000))
}

// NextBarcode returns a fresh barcode for the given product code and day.
func (g *Generator) NextBarcode(productCode int, day time.Time) string {
	return Barcode(productCode, day, g.rng.Intn(10000))
}

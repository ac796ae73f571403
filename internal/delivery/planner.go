// Package delivery turns a distance into a lead time and a localized
// delivery promise date.
package delivery

import (
	"fmt"
	"time"

	"furnistore/internal/geo"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/en_IN"
	"github.com/go-playground/locales/hi_IN"
)

// Lead times per distance tier, in days.
const (
	LocalLeadDays    = 2
	RegionalLeadDays = 4
	ZonalLeadDays    = 6
	NationalLeadDays = 15
)

// Estimate is the delivery promise for a single distance.
type Estimate struct {
	Days        int     `json:"days"`
	PromiseDate string  `json:"promiseDate"`
	DistanceKm  float64 `json:"distanceKm"`
}

// Config holds the planner's fixed inputs.
type Config struct {
	Warehouse           geo.Coordinate
	WarehousePostalCode string
	Location            *time.Location
	Locale              string
}

// Planner maps distances to delivery promises. It holds only immutable
// configuration and is safe for concurrent use.
type Planner struct {
	warehouse    geo.Coordinate
	warehousePin string
	location     *time.Location
	translator   locales.Translator
	now          func() time.Time
}

var supportedLocales = map[string]func() locales.Translator{
	"en":    en.New,
	"en_IN": en_IN.New,
	"hi_IN": hi_IN.New,
}

// SupportedLocale reports whether name can be used as Config.Locale.
func SupportedLocale(name string) bool {
	_, ok := supportedLocales[name]
	return ok
}

// NewPlanner creates a planner. now may be nil, in which case time.Now is used.
func NewPlanner(cfg Config, now func() time.Time) (*Planner, error) {
	newTranslator, ok := supportedLocales[cfg.Locale]
	if !ok {
		return nil, fmt.Errorf("unsupported delivery locale: %q", cfg.Locale)
	}
	if cfg.Location == nil {
		return nil, fmt.Errorf("delivery time zone is required")
	}
	if now == nil {
		now = time.Now
	}

	return &Planner{
		warehouse:    cfg.Warehouse,
		warehousePin: cfg.WarehousePostalCode,
		location:     cfg.Location,
		translator:   newTranslator(),
		now:          now,
	}, nil
}

// LeadTimeDays returns the lead time for a distance. Tier bounds are
// inclusive; negative distances land in the first tier and NaN in the last.
func LeadTimeDays(distanceKm float64) int {
	switch {
	case distanceKm <= 100:
		return LocalLeadDays
	case distanceKm <= 300:
		return RegionalLeadDays
	case distanceKm <= 700:
		return ZonalLeadDays
	default:
		return NationalLeadDays
	}
}

// Estimate returns the lead time and promise date for distanceKm.
// The clock is read once per call.
func (p *Planner) Estimate(distanceKm float64) Estimate {
	days := LeadTimeDays(distanceKm)
	today := p.now().In(p.location)

	return Estimate{
		Days:        days,
		PromiseDate: p.FormatDate(today.AddDate(0, 0, days)),
		DistanceKm:  distanceKm,
	}
}

// EstimateFromCoordinate estimates delivery to c from the warehouse.
func (p *Planner) EstimateFromCoordinate(c geo.Coordinate) Estimate {
	return p.Estimate(geo.DistanceKm(p.warehouse, c))
}

// EstimateFromPostalCode estimates delivery using the mocked postal-code distance.
func (p *Planner) EstimateFromPostalCode(pin string) (Estimate, error) {
	distance, err := PostalDistanceKm(pin, p.warehousePin)
	if err != nil {
		return Estimate{}, err
	}
	return p.Estimate(distance), nil
}

// FormatDate renders t as "<weekday>, <day> <month>" in the planner's locale,
// e.g. "Tue, 19 Dec".
func (p *Planner) FormatDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s",
		p.translator.WeekdayAbbreviated(t.Weekday()),
		t.Day(),
		p.translator.MonthAbbreviated(t.Month()),
	)
}

// Warehouse returns the reference coordinate distances are measured from.
func (p *Planner) Warehouse() geo.Coordinate {
	return p.warehouse
}

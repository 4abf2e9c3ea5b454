package aggregate

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lueurxax/news-medallion/internal/core/domain"
	apperrors "github.com/lueurxax/news-medallion/internal/core/errors"
)

// DefaultTopN is the number of trending terms kept when Options.TopN is 0.
const DefaultTopN = 20

// Options parameterize the rollups. Dates are YYYY-MM-DD strings; zero values
// mean "derive from the data".
type Options struct {
	// Date restricts the daily summary to one day and selects the trending
	// day. Trending defaults to the latest date in the snapshot.
	Date string `validate:"omitempty,datetime=2006-01-02"`

	// PeriodStart and PeriodEnd bound source stats and the category matrix.
	// Both or neither must be set.
	PeriodStart string `validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd   string `validate:"omitempty,datetime=2006-01-02"`

	TopN        int                `validate:"gte=0,lte=1000"`
	Granularity domain.Granularity `validate:"omitempty,oneof=daily weekly monthly"`

	SourceFilter   string `validate:"omitempty,max=255"`
	CategoryFilter string `validate:"omitempty,max=255"`
}

var optionsValidate *validator.Validate

func init() {
	optionsValidate = validator.New(validator.WithRequiredStructEnabled())
	optionsValidate.RegisterStructValidation(validatePeriod, Options{})
}

func validatePeriod(sl validator.StructLevel) {
	o, ok := sl.Current().Interface().(Options)
	if !ok {
		return
	}

	if (o.PeriodStart == "") != (o.PeriodEnd == "") {
		sl.ReportError(o.PeriodEnd, "PeriodEnd", "PeriodEnd", "period_pair", "")
		return
	}

	start, errStart := time.Parse(domain.DateLayout, o.PeriodStart)
	end, errEnd := time.Parse(domain.DateLayout, o.PeriodEnd)

	if errStart == nil && errEnd == nil && end.Before(start) {
		sl.ReportError(o.PeriodEnd, "PeriodEnd", "PeriodEnd", "period_order", "")
	}
}

// Validate reports malformed dates, a half-open or inverted period, an
// unknown granularity and out-of-range limits.
func (o Options) Validate() error {
	if err := optionsValidate.Struct(o); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, err.Error())
	}

	return nil
}

func (o Options) withDefaults() Options {
	if o.TopN == 0 {
		o.TopN = DefaultTopN
	}

	if o.Granularity == "" {
		o.Granularity = domain.GranularityDaily
	}

	return o
}

// date returns the parsed Date option. Validate has already run.
func (o Options) date() (time.Time, bool) {
	if o.Date == "" {
		return time.Time{}, false
	}

	d, err := time.Parse(domain.DateLayout, o.Date)

	return d, err == nil
}

func (o Options) period() (start, end time.Time, ok bool) {
	if o.PeriodStart == "" || o.PeriodEnd == "" {
		return time.Time{}, time.Time{}, false
	}

	start, errStart := time.Parse(domain.DateLayout, o.PeriodStart)
	end, errEnd := time.Parse(domain.DateLayout, o.PeriodEnd)

	return start, end, errStart == nil && errEnd == nil
}

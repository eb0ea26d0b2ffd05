// Package forecast defines the data structures related to a given forecast and
// includes functions for computing the forecasts.
package forecast

import (
	"fmt"
	"time"

	"github.com/lachho/property-sub000/internal/config"
	"github.com/lachho/property-sub000/pkg/borrowing"
	"github.com/lachho/property-sub000/pkg/datetime"
	"github.com/lachho/property-sub000/pkg/gearing"
	"github.com/lachho/property-sub000/pkg/loans"
	"github.com/lachho/property-sub000/pkg/portfolio"
	"github.com/lachho/property-sub000/pkg/projection"
	"github.com/lachho/property-sub000/pkg/validation"
	"go.uber.org/zap"
)

// Forecast holds every calculation run for a specific scenario. Blocks the
// scenario did not configure are nil.
type Forecast struct {
	Name              string                    `json:"name"`
	Projection        []projection.YearSnapshot `json:"projection,omitempty"`
	Portfolio         *portfolio.Result         `json:"portfolio,omitempty"`
	Mortgage          *loans.Result             `json:"mortgage,omitempty"`
	BorrowingCapacity *float64                  `json:"borrowingCapacity,omitempty"`
	NegativeGearing   *gearing.Result           `json:"negativeGearing,omitempty"`
	Notes             []string                  `json:"notes,omitempty"`
}

// GetForecast processes the Forecasts for all active Scenarios, anchoring
// mortgages without a start date to today.
func GetForecast(logger *zap.Logger, conf config.Configuration) ([]Forecast, error) {
	return GetForecastWithStart(logger, conf, datetime.StartOfDay(time.Now()))
}

// GetForecastWithStart is GetForecast with a fixed fallback start date.
func GetForecastWithStart(logger *zap.Logger, conf config.Configuration, start time.Time) ([]Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Forecast
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "forecast.GetForecast"),
			)
			continue
		}

		result, err := runScenario(logger, scenario, start)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

func runScenario(logger *zap.Logger, scenario config.Scenario, start time.Time) (Forecast, error) {
	result := Forecast{Name: scenario.Name}

	if err := scenario.Validate(); err != nil {
		return result, err
	}

	if scenario.StartDate != "" {
		parsed, err := config.ParseStartDate(scenario.StartDate)
		if err != nil {
			return result, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
		start = parsed
	}

	if scenario.Projection != nil {
		result.Projection = projection.Project(config.ProjectionInput(*scenario.Projection))
		logger.Debug("projected single property",
			zap.String("op", "forecast.runScenario"),
			zap.String("scenario", scenario.Name),
			zap.Int("years", len(result.Projection)),
		)
	}

	if scenario.Portfolio != nil {
		req := *scenario.Portfolio
		req.Properties = append([]validation.PortfolioPropertyRequest(nil), req.Properties...)
		config.AssignPropertyIDs(&req)
		simulated := portfolio.SimulateDetailed(config.PortfolioProperties(req), config.PortfolioOptions(req))
		result.Portfolio = &simulated
		for _, acq := range simulated.Acquisitions {
			note := acquisitionNote(acq)
			result.Notes = append(result.Notes, note)
			logger.Debug(note,
				zap.String("op", "forecast.runScenario"),
				zap.String("scenario", scenario.Name),
				zap.String("property", acq.ID),
				zap.Int("year", acq.Year),
			)
		}
	}

	if scenario.Mortgage != nil {
		in, err := config.MortgageInput(*scenario.Mortgage, start)
		if err != nil {
			return result, fmt.Errorf("scenario %q mortgage: %w", scenario.Name, err)
		}
		repayment := loans.Calculate(in)
		result.Mortgage = &repayment
		if repayment.TimeSavedMonths > 0 {
			result.Notes = append(result.Notes, fmt.Sprintf(
				"Additional %s repayments of %.2f pay the loan off %.1f months early on %s, saving %.2f in interest",
				in.Frequency, in.AdditionalRepayment, repayment.TimeSavedMonths,
				repayment.PayoffDate.Format("2006-01-02"), repayment.InterestSaved))
		}
	}

	if scenario.Borrowing != nil {
		capacity := borrowing.Estimate(config.BorrowingInput(*scenario.Borrowing))
		result.BorrowingCapacity = &capacity
	}

	if scenario.NegativeGearing != nil {
		impact := gearing.Calculate(config.NegativeGearingInput(*scenario.NegativeGearing))
		result.NegativeGearing = &impact
		if impact.TaxSavings < 0 {
			result.Notes = append(result.Notes, fmt.Sprintf(
				"Rental income exceeds deductions; tax increases by %.2f", -impact.TaxSavings))
		}
	}

	logger.Info("computed scenario",
		zap.String("op", "forecast.GetForecast"),
		zap.String("scenario", scenario.Name),
		zap.Int("notes", len(result.Notes)),
	)

	return result, nil
}

func acquisitionNote(acq portfolio.Acquisition) string {
	note := fmt.Sprintf("Acquire %s in year %d with a %.0f deposit", acq.ID, acq.Year, acq.Deposit)
	for _, d := range acq.Draws {
		note += fmt.Sprintf(", drawing %.0f from %s", d.Amount, d.FromID)
	}
	return note
}

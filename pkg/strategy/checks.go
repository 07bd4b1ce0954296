// Package strategy implements the portfolio risk-ratio checks: each check
// computes one metric over a series of periodic returns, rounds it to a
// fixed precision, and evaluates it against a caller-supplied threshold.
// Checks are pure functions; a metric that is undefined for the input
// (zero volatility, no losses, too little data) reports NaN and fails the
// check rather than returning an error.
package strategy

import (
	"math"
	"sort"

	"github.com/Laranguyen811/diagnostic-tool/pkg/formulas"
)

const (
	tradingDays       = 252  // periods per year when annualizing daily returns
	cvarTail          = 0.05 // worst-case fraction of the return distribution
	valuePrecision    = 3
	drawdownPrecision = 2
)

// CheckResult is one evaluated metric: its display name, rounded value,
// and whether it cleared the caller's threshold. A NaN value never passes.
type CheckResult struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Pass   bool    `json:"pass"`
}

// CheckSharpeRatio evaluates return per unit of volatility:
// mean(excess) / sample standard deviation of excess returns. Zero
// volatility, or a series too short to estimate it, yields NaN. A
// threshold of 1.0 is the conventional bar.
func CheckSharpeRatio(returns []float64, riskFreeRate, threshold float64) CheckResult {
	excess := excessReturns(returns, riskFreeRate)
	std := formulas.StdDev(excess)

	sharpe := math.NaN()
	if std > 0 {
		sharpe = formulas.Mean(excess) / std
	}
	return CheckResult{
		Metric: "Sharpe Ratio",
		Value:  formulas.Round(sharpe, valuePrecision),
		Pass:   sharpe >= threshold,
	}
}

// MaxDrawdown calculates the maximum peak-to-trough decline of an equity
// curve as a percentage, a non-positive number rounded to 2 decimals.
// Stretches with a non-positive running peak contribute zero drawdown so
// the division stays defined.
func MaxDrawdown(equityCurve []float64) float64 {
	if len(equityCurve) == 0 {
		return 0
	}
	peak := equityCurve[0]
	maxDD := 0.0
	for _, v := range equityCurve {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (v - peak) / peak; dd < maxDD {
				maxDD = dd
			}
		}
	}
	return formulas.Round(maxDD*100, drawdownPrecision)
}

// CheckCalmarRatio evaluates annualized excess return per unit of maximum
// drawdown, taking the drawdown of the excess-return series in absolute
// value. A series with no drawdown yields NaN.
func CheckCalmarRatio(returns []float64, riskFreeRate, threshold float64) CheckResult {
	excess := excessReturns(returns, riskFreeRate)
	annualized := formulas.Mean(excess) * tradingDays
	maxDD := math.Abs(MaxDrawdown(excess))

	calmar := math.NaN()
	if maxDD != 0 {
		calmar = annualized / maxDD
	}
	return CheckResult{
		Metric: "Calmar Ratio",
		Value:  formulas.Round(calmar, valuePrecision),
		Pass:   calmar >= threshold,
	}
}

// CheckSortinoRatio evaluates return per unit of downside risk:
// mean(excess) divided by the root mean square of the negative excess
// returns. A series with no downside yields NaN.
func CheckSortinoRatio(returns []float64, riskFreeRate, threshold float64) CheckResult {
	excess := excessReturns(returns, riskFreeRate)

	sumSq := 0.0
	for _, e := range excess {
		if e < 0 {
			sumSq += e * e
		}
	}
	downside := 0.0
	if len(excess) > 0 {
		downside = math.Sqrt(sumSq / float64(len(excess)))
	}

	sortino := math.NaN()
	if downside > 0 {
		sortino = formulas.Mean(excess) / downside
	}
	return CheckResult{
		Metric: "Sortino Ratio",
		Value:  formulas.Round(sortino, valuePrecision),
		Pass:   sortino >= threshold,
	}
}

// CheckOmegaRatio evaluates the probability-weighted ratio of gains to
// losses over the excess-return distribution: Σ gains ÷ |Σ losses|. It
// reflects the whole shape of the distribution, not just its first two
// moments. A series with no losses yields NaN.
func CheckOmegaRatio(returns []float64, riskFreeRate, threshold float64) CheckResult {
	excess := excessReturns(returns, riskFreeRate)

	gains, losses := 0.0, 0.0
	for _, e := range excess {
		if e >= 0 {
			gains += e
		} else {
			losses += e
		}
	}
	omega := math.NaN()
	if losses < 0 {
		omega = gains / -losses
	}
	return CheckResult{
		Metric: "Omega Ratio",
		Value:  formulas.Round(omega, valuePrecision),
		Pass:   omega >= threshold,
	}
}

// CheckCVaR evaluates the conditional value at risk: the mean of the worst
// cvarTail share of the excess-return distribution. Series too small to
// populate the tail (fewer than 20 observations at the 5% level) report
// NaN and fail the check.
func CheckCVaR(returns []float64, riskFreeRate, threshold float64) CheckResult {
	excess := excessReturns(returns, riskFreeRate)
	sort.Float64s(excess)

	tail := int(cvarTail * float64(len(excess)))
	if tail == 0 {
		return CheckResult{Metric: "CVaR", Value: math.NaN(), Pass: false}
	}

	cvar := formulas.Mean(excess[:tail])
	return CheckResult{
		Metric: "CVaR",
		Value:  formulas.Round(cvar, valuePrecision),
		Pass:   cvar >= threshold,
	}
}

func excessReturns(returns []float64, riskFreeRate float64) []float64 {
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeRate
	}
	return excess
}

package market

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Interval is an exchange-style bar interval like "1m", "15m", "1h", "4h", "1d".
type Interval string

const (
	M1  Interval = "1m"
	M5  Interval = "5m"
	M15 Interval = "15m"
	H1  Interval = "1h"
	H4  Interval = "4h"
	D1  Interval = "1d"
)

// Duration converts the interval suffix notation into a time.Duration.
func (iv Interval) Duration() (time.Duration, error) {
	s := strings.TrimSpace(string(iv))
	if len(s) < 2 {
		return 0, fmt.Errorf("bad interval %q", iv)
	}

	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("bad interval %q", iv)
	}

	switch s[len(s)-1] {
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("bad interval %q", iv)
}

// PeriodsPerYear returns the annualization factor for Sharpe computation on
// this interval, on a 252 trading-day basis. For 15m bars this is
// 252*24*4 = 24192.
func (iv Interval) PeriodsPerYear() (float64, error) {
	d, err := iv.Duration()
	if err != nil {
		return 0, err
	}
	perDay := float64(24*time.Hour) / float64(d)
	return 252 * perDay, nil
}

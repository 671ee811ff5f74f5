package aws

import (
	"fmt"
	"time"

	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// period is a Cost Explorer time window; End is exclusive.
type period struct {
	Start time.Time
	End   time.Time
}

func (p period) interval() *ceTypes.DateInterval {
	start, end := p.Start.Format(dateLayout), p.End.Format(dateLayout)
	return &ceTypes.DateInterval{Start: &start, End: &end}
}

// resolvePeriods turns filter[time_scope_*] into the current window and the
// window it is compared against.
//
//	month -1  current month to date, compared with the same days of last month
//	month -N  the calendar month N-1 months ago, compared with the month before
//	day -N    the last N days, compared with the N days before
func resolvePeriods(now time.Time, f entity.Filter) (period, period, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	units := f.TimeScopeUnits
	if units == "" {
		units = "month"
	}
	value := f.TimeScopeValue
	if value >= 0 {
		value = -1
	}

	switch units {
	case "month":
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		var cur period
		if value == -1 {
			cur = period{Start: first, End: today}
			if !cur.End.After(cur.Start) {
				cur.End = cur.Start.AddDate(0, 0, 1)
			}
		} else {
			start := first.AddDate(0, value+1, 0)
			cur = period{Start: start, End: start.AddDate(0, 1, 0)}
		}
		prev := period{Start: cur.Start.AddDate(0, -1, 0), End: cur.End.AddDate(0, -1, 0)}
		if prev.End.After(cur.Start) {
			prev.End = cur.Start
		}
		return cur, prev, nil
	case "day":
		cur := period{Start: today.AddDate(0, 0, value), End: today}
		prev := period{Start: cur.Start.AddDate(0, 0, value), End: cur.Start}
		return cur, prev, nil
	default:
		return period{}, period{}, fmt.Errorf("unsupported time scope units %q", f.TimeScopeUnits)
	}
}

func granularity(resolution string) (ceTypes.Granularity, error) {
	switch resolution {
	case "", "monthly":
		return ceTypes.GranularityMonthly, nil
	case "daily":
		return ceTypes.GranularityDaily, nil
	case "hourly":
		return ceTypes.GranularityHourly, nil
	default:
		return "", fmt.Errorf("unsupported resolution %q", resolution)
	}
}

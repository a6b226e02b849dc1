package scheduler

import "fmt"

// ScheduleConfigError reports an invalid schedule configuration. Workflows
// carrying one are left unscheduled.
type ScheduleConfigError struct {
	WorkflowID string
	Reason     string
}

func (e *ScheduleConfigError) Error() string {
	return fmt.Sprintf("invalid schedule for workflow %s: %s", e.WorkflowID, e.Reason)
}

// IntervalToCron converts an {interval, unit} pair into a seconds-precision
// cron pattern. Each unit is validated against its natural modulus, so an
// interval of 60 minutes must be expressed as 1 hour instead.
func IntervalToCron(interval int, unit string) (string, error) {
	if interval < 1 {
		return "", fmt.Errorf("interval must be positive, got %d", interval)
	}

	switch unit {
	case "seconds":
		if interval >= 60 {
			return "", fmt.Errorf("interval in seconds must be < 60, got %d", interval)
		}

		return fmt.Sprintf("*/%d * * * * *", interval), nil
	case "minutes":
		if interval >= 60 {
			return "", fmt.Errorf("interval in minutes must be < 60, got %d", interval)
		}

		return fmt.Sprintf("0 */%d * * * *", interval), nil
	case "hours":
		if interval >= 24 {
			return "", fmt.Errorf("interval in hours must be < 24, got %d", interval)
		}

		return fmt.Sprintf("0 0 */%d * * *", interval), nil
	case "days":
		if interval >= 31 {
			return "", fmt.Errorf("interval in days must be < 31, got %d", interval)
		}

		return fmt.Sprintf("0 0 0 */%d * *", interval), nil
	default:
		return "", fmt.Errorf("unknown interval unit: %s", unit)
	}
}

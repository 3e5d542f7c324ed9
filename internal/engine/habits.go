package engine

const (
	dailyPeriodDays  = 1
	weeklyPeriodDays = 7
)

// DailyReminderHour is the local hour at which daily activities are announced.
const DailyReminderHour = 9

// habitReminderHours are the local hours at which habits are nudged.
var habitReminderHours = [...]int{10, 14, 18}

func IsRecurringType(t TaskType) bool {
	return t == TaskTypeHabit || t == TaskTypeDailyActivity
}

// RecurringPeriodDays is 1 for daily activities and 7 for everything else.
func RecurringPeriodDays(t TaskType) int {
	if t == TaskTypeDailyActivity {
		return dailyPeriodDays
	}
	return weeklyPeriodDays
}

// recurringSlot reports whether the local hour/minute is a reminder slot for the type.
func recurringSlot(t TaskType, hour int, minute int) bool {
	if minute != 0 {
		return false
	}
	switch t {
	case TaskTypeDailyActivity:
		return hour == DailyReminderHour
	case TaskTypeHabit:
		for _, h := range habitReminderHours {
			if hour == h {
				return true
			}
		}
	}
	return false
}

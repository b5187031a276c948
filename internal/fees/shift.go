package fees

import (
	"time"

	"valet-service/internal/model"
)

// ClassifyShift buckets an exit timestamp into the two operating shifts.
// Morning covers 08:00 to 19:59 local time, Evening the rest. Only the hour
// component matters; callers must re-classify whenever the exit time changes.
func ClassifyShift(exitTime time.Time) model.Shift {
	hour := exitTime.Hour()
	if hour >= 8 && hour < 20 {
		return model.ShiftMorning
	}
	return model.ShiftEvening
}

package slots

import "github.com/m04kA/BarberBookingService/pkg/types"

// Generate возвращает начала слотов с шагом stepMinutes в [start, end).
// Слот попадает в сетку, только если целиком помещается до end, поэтому
// их количество равно floor((end-start)/step).
// Арифметика ведется в минутах от полуночи без привязки к дате и часовому поясу.
// Для некорректных границ, start >= end или step <= 0 возвращается пустой список.
func Generate(start, end types.TimeString, stepMinutes int) []types.TimeString {
	result := make([]types.TimeString, 0)

	if stepMinutes <= 0 {
		return result
	}

	from, err := start.Minutes()
	if err != nil {
		return result
	}
	to, err := end.Minutes()
	if err != nil {
		return result
	}

	for m := from; m+stepMinutes <= to; m += stepMinutes {
		slot, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			break
		}
		result = append(result, slot)
	}

	return result
}
